// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
	"github.com/escoteiros/scout-inventory/internal/adapters/queue"
	redis_a "github.com/escoteiros/scout-inventory/internal/adapters/redis_adapter"
	"github.com/escoteiros/scout-inventory/internal/app"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/internal/handlers"
	"github.com/escoteiros/scout-inventory/internal/handlers/middleware"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting scout inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Backend.Kind),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := app.Migrate(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			if cfg.IsProduction() {
				os.Exit(1)
			}
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup(slogger)

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	backend        *app.Backend
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	api            *handlers.API
}

func (d *dependencies) cleanup(logger *slog.Logger) {
	if d.backend != nil {
		if err := d.backend.Close(context.Background()); err != nil {
			logger.Error("failed to close backend", slog.String("error", err.Error()))
		}
	}
	if d.database != nil {
		d.database.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		if err := d.asynqClient.Close(); err != nil {
			logger.Error("failed to close Asynq client", slog.String("error", err.Error()))
		}
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (deps *dependencies, err error) {
	deps = &dependencies{}
	defer func() {
		if err != nil {
			deps.cleanup(logger)
		}
	}()

	// Profiles and withdrawals always live in the relational store
	deps.database, err = app.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return deps, err
	}

	deps.backend, err = app.OpenBackend(ctx, cfg, deps.database, logger)
	if err != nil {
		return deps, err
	}

	deps.redisClient, err = app.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		return deps, err
	}
	cache := redis_a.NewCache(deps.redisClient, cfg.Redis.TTL, logger)

	logger.Info("initializing Asynq client")
	redisOpt := app.AsynqRedisOpt(cfg)
	deps.asynqClient = asynq.NewClient(redisOpt)
	deps.asynqInspector = asynq.NewInspector(redisOpt)
	tasks := queue.NewClient(deps.asynqClient, cfg.Asynq.RetryMax, logger)

	access := services.NewAccessService(
		db.NewProfileRepository(deps.database, logger),
		cfg.Access.RoleCacheSize,
		cfg.Access.RoleCacheTTL,
		logger,
	)
	inventory := services.NewInventoryService(deps.backend, cache, access, cfg.Redis.TTL, logger)
	requests := services.NewRequestService(deps.backend, access, logger)
	withdrawals := services.NewWithdrawalService(
		db.NewWithdrawalRepository(deps.database, logger),
		inventory,
		access,
		tasks,
		logger,
	)

	deps.api = &handlers.API{
		Health:      handlers.NewHealthHandler(deps.backend, deps.redisClient, cache, deps.asynqInspector, cfg, logger),
		Inventory:   handlers.NewInventoryHandler(inventory, logger),
		Requests:    handlers.NewRequestHandler(requests, logger),
		Withdrawals: handlers.NewWithdrawalHandler(withdrawals, logger),
		Profiles:    handlers.NewProfileHandler(access, logger),
		Export:      handlers.NewExportHandler(inventory, access, tasks, logger),
		Import:      handlers.NewImportHandler(inventory, access, logger, int64(cfg.Server.MaxUploadMB)<<20),
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	deps.api.Routes(mux)

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	if cfg.Server.WriteTimeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Server.WriteTimeout))
	}
	mws = append(mws,
		middleware.MaxBody(int64(cfg.Server.MaxUploadMB)<<20),
		middleware.Compression,
		middleware.Authenticate(middleware.NewTokenVerifier(cfg.Auth), logger),
	)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
