// Package tryonapi собирает HTTP API каталога примерки: маршруты, сервисы и фоновые серверы.
package tryonapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// регистрирует описание API для /docs
	_ "github.com/virtudress/tryon-catalog/docs"
	"github.com/virtudress/tryon-catalog/internal/cache"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/admin/attachmodel"
	adminproducts "github.com/virtudress/tryon-catalog/internal/http/handlers/admin/products"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/admin/trylink"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/admin/users"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/admin/userswithproducts"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/auth/login"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/auth/logout"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/auth/me"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/auth/signup"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/contact/submit"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/health"
	ordercreate "github.com/virtudress/tryon-catalog/internal/http/handlers/order/create"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/payment/notify"
	publicproduct "github.com/virtudress/tryon-catalog/internal/http/handlers/public/product"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/public/tryon"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/user/productcreate"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/user/productlist"
	"github.com/virtudress/tryon-catalog/internal/http/handlers/user/stats"
	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
	contactservice "github.com/virtudress/tryon-catalog/internal/services/contact"
	orderservice "github.com/virtudress/tryon-catalog/internal/services/order"
	paymentservice "github.com/virtudress/tryon-catalog/internal/services/payment"
	productservice "github.com/virtudress/tryon-catalog/internal/services/product"
)

// Services зависимости маршрутов.
type Services struct {
	Auth      *authservice.AuthService
	Orders    *orderservice.Service
	Activator *paymentservice.Activator
	Products  *productservice.Service
	Contacts  *contactservice.Service

	// Cache может быть nil, тогда публичная карточка товара не кэшируется.
	Cache    *cache.Cache
	CacheTTL time.Duration

	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Checks   map[string]health.Checker
}

// Options параметры HTTP-слоя.
type Options struct {
	Cookies        middlewarectx.Cookies
	AllowedOrigins []string
	UploadDir      string
	MaxBodySize    int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services, opts Options) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		s.Metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	session := middlewarectx.SessionMiddleware(s.Auth, opts.Cookies, logger)
	limiter := middlewarectx.NewClientLimiter(rate.Every(time.Second), 10)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware(logger)).Post("/signup", signup.New(logger, s.Auth, opts.Cookies).ServeHTTP)
			r.With(limiter.Middleware(logger)).Post("/login", login.New(logger, s.Auth, opts.Cookies).ServeHTTP)
			r.Post("/logout", logout.New(logger, s.Auth, opts.Cookies).ServeHTTP)
			r.With(session).Get("/me", me.New(logger, s.Auth).ServeHTTP)
		})

		// Товары пользователя
		r.Route("/user", func(r chi.Router) {
			r.Use(session)
			r.Get("/stats", stats.New(logger, s.Products).ServeHTTP)
			r.Post("/product", productcreate.New(logger, s.Products, opts.MaxBodySize).ServeHTTP)
			r.Get("/products", productlist.New(logger, s.Products).ServeHTTP)
		})

		// Админка
		r.Route("/admin", func(r chi.Router) {
			r.Use(session, middlewarectx.RequireAdmin(logger))
			r.Get("/users", users.New(logger, s.Products).ServeHTTP)
			r.Get("/products", adminproducts.New(logger, s.Products).ServeHTTP)
			r.Get("/users-with-products", userswithproducts.New(logger, s.Products).ServeHTTP)
			r.Put("/products/{id}/model", attachmodel.New(logger, s.Products).ServeHTTP)
			r.Post("/products/{id}/try-on-link", trylink.New(logger, s.Products).ServeHTTP)
		})

		// Открытые конечные точки
		r.Get("/try-on/{link}", tryon.New(logger, s.Products).ServeHTTP)
		public := publicproduct.New(logger, s.Products)
		if s.Cache != nil {
			r.With(cache.Middleware(s.Cache, s.CacheTTL, logger)).Get("/public/product/{productId}", public.ServeHTTP)
		} else {
			r.Get("/public/product/{productId}", public.ServeHTTP)
		}
		r.With(limiter.Middleware(logger)).Post("/contact/submit", submit.New(logger, s.Contacts).ServeHTTP)

		// Платежи: уведомление шлюза приходит без сессии, доверие только к подписи
		r.Post("/create-order", ordercreate.New(logger, s.Orders).ServeHTTP)
		r.Post("/payhere-notify", notify.New(logger, s.Activator).ServeHTTP)
	})

	r.Get("/health", health.New(logger, s.Checks).ServeHTTP)
	r.Handle("/metrics", metrics.Handler(s.Registry))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	if opts.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}
}
