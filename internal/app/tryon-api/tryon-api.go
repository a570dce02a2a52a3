package tryonapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/virtudress/tryon-catalog/internal/cache"
	"github.com/virtudress/tryon-catalog/internal/config"
	grpchealth "github.com/virtudress/tryon-catalog/internal/grpc/health"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/health"
	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/lib/jwt"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/upload"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/migrations"
	"github.com/virtudress/tryon-catalog/internal/rabbitmq"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
	contactservice "github.com/virtudress/tryon-catalog/internal/services/contact"
	orderservice "github.com/virtudress/tryon-catalog/internal/services/order"
	paymentservice "github.com/virtudress/tryon-catalog/internal/services/payment"
	productservice "github.com/virtudress/tryon-catalog/internal/services/product"
	"github.com/virtudress/tryon-catalog/internal/session"
	"github.com/virtudress/tryon-catalog/internal/storage/repository"
)

// App HTTP API вместе с gRPC health-сервером.
type App struct {
	server *http.Server
	health *grpchealth.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// ledgerTx связывает транзакции хранилища с интерфейсом активатора подписок.
type ledgerTx struct {
	storage *repository.Storage
}

func (t ledgerTx) WithinTx(ctx context.Context, fn func(ctx context.Context, ledger paymentservice.Ledger) error) error {
	return t.storage.WithinTx(ctx, func(ctx context.Context, tx *repository.Storage) error {
		return fn(ctx, tx)
	})
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range 10 {
		if err = repository.CheckDatabaseReady(ctx, db); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New поднимает зависимости: базу (с миграциями), Redis, RabbitMQ (если задан URL) и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "tryonapi.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("migrations applied", slog.Uint64("version", uint64(version)))
	if err = waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images, err := upload.New(cfg.Upload.Dir)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry, m := metrics.NewRegistry()
	sessions := session.NewStore(cacheRedis.Db, cfg.Session.TTL)
	authService := authservice.NewAuthService(db, sessions, m, logger)
	links := jwt.NewJWTMaker(cfg.TryOnLink.SecretKey, cfg.TryOnLink.TTL)

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	activatorOpts := []paymentservice.Option{
		paymentservice.WithMetrics(m),
		paymentservice.WithPeriod(cfg.SubscriptionPeriod),
	}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.conn, app.ch = conn, ch
		activatorOpts = append(activatorOpts, paymentservice.WithEvents(rabbitmq.NewPublisher(ch)))
	} else {
		logger.Warn("rabbitmq url is empty, subscription events are not published")
	}

	activator := paymentservice.NewActivator(
		paymentservice.NewVerifier(cfg.MerchantSecret),
		ledgerTx{storage: db},
		logger,
		activatorOpts...,
	)

	checks := map[string]health.Checker{
		"postgres": db.DB.PingContext,
		"redis": func(ctx context.Context) error {
			return cacheRedis.Db.Ping(ctx).Err()
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:      authService,
		Orders:    orderservice.New(db, m, logger),
		Activator: activator,
		Products:  productservice.New(db, db, images, links, cacheRedis, m, logger, cfg.Upload.MaxFiles),
		Contacts:  contactservice.New(db, logger),
		Cache:     cacheRedis,
		CacheTTL:  cfg.CacheTTL,
		Metrics:   m,
		Registry:  registry,
		Checks:    checks,
	}, Options{
		Cookies: middlewarectx.Cookies{
			Name:   cfg.CookieName,
			TTL:    sessions.TTL(),
			Secure: cfg.IsProd(),
		},
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      images.Dir(),
		MaxBodySize:    cfg.MaxBodySize,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.GRPCAddress != "" {
		grpcChecks := map[string]grpchealth.Check{}
		for name, check := range checks {
			grpcChecks[name] = grpchealth.Check(check)
		}
		app.health, err = grpchealth.New(cfg.GRPCAddress, grpcChecks, 10*time.Second, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	if a.health != nil {
		go func() {
			if err := a.health.Run(healthCtx); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	stopHealth()
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.close()
	return runErr
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
