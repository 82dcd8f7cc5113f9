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

	"github.com/spec-kit/personnel-directory/internal/api/docs"
	httptransport "github.com/spec-kit/personnel-directory/internal/api/http"
	"github.com/spec-kit/personnel-directory/internal/api/http/handlers"
	"github.com/spec-kit/personnel-directory/internal/auth"
	"github.com/spec-kit/personnel-directory/internal/config"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/lock"
	"github.com/spec-kit/personnel-directory/internal/observability"
	"github.com/spec-kit/personnel-directory/internal/persistence"
	"github.com/spec-kit/personnel-directory/internal/repository"
	"github.com/spec-kit/personnel-directory/internal/service"
	"github.com/spec-kit/personnel-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	health := map[string]handlers.Pinger{}
	var repos repository.Repositories
	switch cfg.Store.Driver {
	case config.StorePostgres:
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
		repos = repository.NewPostgresRepositories(pg.PoolHandle())
		health["postgres"] = pg
	case config.StoreMongo:
		mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect mongo", zap.Error(err))
		}
		defer mongo.Close()
		repos = repository.NewMongoRepositories(mongo.DB)
		health["mongo"] = mongo
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		repos = repository.NewMemoryRepositories()
	}

	locker := lock.NewMemoryLocker(cfg.Lock.Wait())
	if cfg.Lock.Backend == config.LockRedis {
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		locker = lock.NewRedisLocker(redis.Client, cfg.Lock.TTL(), cfg.Lock.Wait())
		health["redis"] = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var kafka *events.KafkaPublisher
	if len(cfg.Events.KafkaBrokers) > 0 {
		kafka, err = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.Events.KafkaBrokers,
			Topic:   cfg.Events.KafkaTopic,
		}, logger)
		if err != nil {
			logger.Fatal("failed to create kafka publisher", zap.Error(err))
		}
	}
	worker.StartAuditWorker(dispatcher, service.NewAuditService(dispatcher, logger), kafka)

	deps := service.Dependencies{
		Repos:      repos,
		Locker:     locker,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	}

	var authMiddleware *auth.AuthMiddleware
	if cfg.Auth.Required {
		authMiddleware = auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	err = httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		BasePath:       cfg.App.BasePath,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, health),
		Areas:          handlers.NewAreasHandler(service.NewAreaService(deps)),
		Managers:       handlers.NewManagersHandler(service.NewManagerService(deps)),
		Departments:    handlers.NewDepartmentsHandler(service.NewDepartmentService(deps)),
		Employees:      handlers.NewEmployeesHandler(service.NewEmployeeService(deps)),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
		Info: docs.Info{
			Title:       "Personnel Directory API",
			Version:     cfg.App.Version,
			Description: "Areas, managers, departments and employees linked by name.",
		},
	})
	if err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	kafka.Close(shutdownCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
