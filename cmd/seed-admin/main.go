package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/config"
	"github.com/spec-kit/catalog-admin/internal/observability"
	"github.com/spec-kit/catalog-admin/internal/persistence"
	"github.com/spec-kit/catalog-admin/internal/repository"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/validation"
)

func main() {
	name := flag.String("name", envOr("ADMIN_NAME", "Administrator"), "display name of the admin")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin login email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 6 characters)")
	reset := flag.Bool("reset-password", false, "overwrite the password of an existing account and make it an admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if *email == "" || *password == "" {
		logger.Fatal("email and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required to seed an admin")
	}

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  repository.NewUserRepository(pg.PoolHandle()),
		Validator: validation.New(),
		Logger:    logger,
	})

	user, outcome, err := authService.SeedAdmin(ctx, *name, *email, *password, *reset)
	if err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}
	if outcome == service.SeedExisting {
		logger.Info("account already exists; pass -reset-password to overwrite it",
			zap.String("email", user.Email), zap.String("role", string(user.Role)))
		return
	}
	logger.Info("admin seeded", zap.String("outcome", string(outcome)), zap.String("id", user.ID), zap.String("email", user.Email))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
