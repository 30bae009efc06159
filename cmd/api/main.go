package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/catalog-admin/internal/api/http"
	"github.com/spec-kit/catalog-admin/internal/api/http/handlers"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/config"
	"github.com/spec-kit/catalog-admin/internal/events"
	"github.com/spec-kit/catalog-admin/internal/imagehost"
	"github.com/spec-kit/catalog-admin/internal/observability"
	"github.com/spec-kit/catalog-admin/internal/persistence"
	"github.com/spec-kit/catalog-admin/internal/repository"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/session"
	"github.com/spec-kit/catalog-admin/internal/validation"
	"github.com/spec-kit/catalog-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	validator := validation.New()
	dispatcher := events.NewInMemoryDispatcher(logger)
	images := imagehost.New(cfg.Cloudinary, logger)
	metrics := observability.NewMetrics("catalog_admin")

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		SessionStore: session.NewRedisStore(redis.Client),
		Validator:    validator,
		Logger:       logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Validator:   validator,
		Dispatcher:  dispatcher,
	})
	worker.StartImageCleanupWorker(service.NewImageCleanupService(dispatcher, images, logger))
	worker.StartCatalogAuditWorker(dispatcher, logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, images),
		Auth:     handlers.NewAuthHandler(authService, cfg.Auth.SecureCookies, logger),
		Products: handlers.NewProductsHandler(productService, images, metrics, logger),
		Admin:    handlers.NewAdminHandler(authService),
		Pages:    handlers.NewPagesHandler(productService, logger),
		Guard:    auth.NewSessionGuard(authService, logger),
		Metrics:  metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
