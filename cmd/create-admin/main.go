// Команда create-admin создаёт учётную запись администратора.
// Повторный запуск с тем же email ничего не меняет.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"

	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/migrations"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
	"github.com/virtudress/tryon-catalog/internal/storage/repository"
)

type env struct {
	Env                     string `env:"APP_ENV" env-default:"local"`
	StorageConnectionString string `env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Administrator", "admin display name")
	website := flag.String("website", "", "admin website")
	flag.Parse()

	var cfg env
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("cannot read environment", sl.Err(err))
		os.Exit(1)
	}
	logger := sl.SetupLogger(cfg.Env)

	if *email == "" || *password == "" {
		logger.Error("email and password are required")
		flag.Usage()
		os.Exit(2)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if _, err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := authservice.NewAuthService(db, nil, nil, logger)
	userID, created, err := auth.EnsureAdmin(ctx, authservice.SignupInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Website:  *website,
	})
	if err != nil {
		logger.Error("failed to create admin", sl.Err(err))
		os.Exit(1)
	}

	if !created {
		logger.Info("admin already exists", slog.String("user_id", userID))
		return
	}
	logger.Info("admin created", slog.String("user_id", userID))
}
