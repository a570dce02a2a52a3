// Package main Try-On Catalog API
//
// @title           Try-On Catalog API
// @version         1.0
// @description     API каталога товаров с виртуальной примеркой и оплатой подписки через PayHere
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name tryon_sid
// @description Серверная сессия, выдаётся при signup/login.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	tryonapi "github.com/virtudress/tryon-catalog/internal/app/tryon-api"
	"github.com/virtudress/tryon-catalog/internal/config"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting tryon-api", slog.String("env", cfg.Env), slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := tryonapi.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("tryon-api stopped gracefully")
}
