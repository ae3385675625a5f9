package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/mood-tracker/internal/api/http"
	"github.com/spec-kit/mood-tracker/internal/api/http/handlers"
	"github.com/spec-kit/mood-tracker/internal/auth"
	"github.com/spec-kit/mood-tracker/internal/config"
	"github.com/spec-kit/mood-tracker/internal/events"
	"github.com/spec-kit/mood-tracker/internal/observability"
	"github.com/spec-kit/mood-tracker/internal/persistence"
	"github.com/spec-kit/mood-tracker/internal/repository"
	"github.com/spec-kit/mood-tracker/internal/service"
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

	location, err := cfg.Mood.Location()
	if err != nil {
		logger.Fatal("invalid MOOD_TIMEZONE", zap.String("timezone", cfg.Mood.Timezone), zap.Error(err))
	}

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	entryRepo := repository.NewMoodEntryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
	})
	entryService := service.NewEntryService(service.EntryDependencies{
		EntryRepo:  entryRepo,
		Dispatcher: dispatcher,
		Location:   location,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	loginLimiter := httptransport.NewLoginRateLimiter(redis, cfg.RateLimit, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	moodsHandler := handlers.NewMoodsHandler(entryService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Moods:          moodsHandler,
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
