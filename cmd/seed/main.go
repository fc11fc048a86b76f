// Command seed creates the schema and loads demo data into the configured
// database. Running it again against a seeded database is a no-op.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/letzcode/letzcode-server/internal/app"
	"github.com/letzcode/letzcode-server/internal/config"
	"github.com/letzcode/letzcode-server/internal/seed"
	"github.com/letzcode/letzcode-server/internal/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	application := app.New(app.Options{
		DB:        db,
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		Logger:    logger,
	})

	_, err = seed.New(application.Users, application.Projects, logger).Run(context.Background())
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		logger.Info("demo data already present", "email", seed.DemoEmail)
	case err != nil:
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	default:
		logger.Info("demo accounts ready", "email", seed.DemoEmail, "password", seed.DemoPassword, "member_password", seed.MemberPassword)
	}
}
