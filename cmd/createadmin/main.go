// Command createadmin creates the administrator account if it does not exist yet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/courtside/tournament-registry/internal/db"
	"github.com/courtside/tournament-registry/internal/logging"
	"github.com/courtside/tournament-registry/internal/service"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type adminConfig struct {
	DatabasePath string `env:"DATABASE_PATH" envDefault:"tournaments.db"`
	Email        string `env:"ADMIN_EMAIL" envDefault:"admin@deportes.com"`
	Password     string `env:"ADMIN_PASSWORD"`
	FirstName    string `env:"ADMIN_FIRST_NAME" envDefault:"Admin"`
	LastName     string `env:"ADMIN_LAST_NAME" envDefault:"System"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"console"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	var cfg adminConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	flag.StringVar(&cfg.Email, "email", cfg.Email, "administrator email")
	flag.StringVar(&cfg.Password, "password", cfg.Password, "administrator password (at least 8 characters)")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "sqlite database path")
	flag.Parse()

	if cfg.Password == "" {
		return fmt.Errorf("a password is required: pass -password or set ADMIN_PASSWORD")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := db.Open(db.DSN(cfg.DatabasePath))
	if err != nil {
		return err
	}
	defer database.Close()
	if err := db.RunMigrations(database.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	accounts := service.NewAccountService(store.NewUserStore(database), nil, service.SystemCalendar(nil), logger)
	admin, created, err := accounts.EnsureAdmin(context.Background(), service.SignupInput{
		Email:     cfg.Email,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if !created {
		logger.Info("administrator already exists",
			zap.String("email", admin.Email),
			zap.Bool("is_admin", admin.IsAdmin))
		return nil
	}
	logger.Info("administrator created", zap.String("email", admin.Email), zap.String("id", admin.ID.String()))
	return nil
}
