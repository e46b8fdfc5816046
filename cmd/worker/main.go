// cmd/worker/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
	"github.com/escoteiros/scout-inventory/internal/adapters/queue"
	"github.com/escoteiros/scout-inventory/internal/app"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
	"github.com/escoteiros/scout-inventory/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).With(slog.String("component", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, slogger); err != nil {
		slogger.Error("worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("worker shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Backend.Kind),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	// Only the relational backend needs the pool; keep it small.
	var database *db.Database
	if cfg.Backend.Kind == config.BackendRelational {
		cfg.Database.MaxConnections, cfg.Database.MinConnections = 10, 2
		var err error
		if database, err = app.OpenDatabase(ctx, cfg, logger); err != nil {
			return err
		}
		defer database.Close()
	}

	backend, err := app.OpenBackend(ctx, cfg, database, logger)
	if err != nil {
		return err
	}
	defer backend.Close(context.Background())

	reports, err := app.NewReportStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Reports only read the listing, which needs no role.
	inventory := services.NewInventoryService(backend, nil, nil, 0, logger)

	notifier := workers.NewNotificationProcessor(cfg.Notification, nil, logger)
	reporter := workers.NewReportProcessor(inventory, reports, cfg.Reports, logger)
	cleaner := workers.NewCleanupProcessor(reports, cfg.Reports, logger)

	redisOpt := app.AsynqRedisOpt(cfg)
	srv := queue.NewServer(redisOpt, cfg.Asynq, logger)
	mux := queue.NewMux(map[string]asynq.HandlerFunc{
		queue.TypeWithdrawalNotice: notifier.SendWithdrawalNotice,
		queue.TypeInventoryReport:  reporter.GenerateInventoryReport,
		queue.TypeCleanupReports:   cleaner.CleanupReports,
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Logger: queue.NewLogger(logger)})
	if cfg.Reports.CleanupCron != "" {
		entryID, err := scheduler.Register(cfg.Reports.CleanupCron,
			queue.NewCleanupReportsTask(asynq.Queue(queue.QueueLow)))
		if err != nil {
			return err
		}
		logger.Info("report cleanup scheduled",
			slog.String("cron", cfg.Reports.CleanupCron),
			slog.String("entry_id", entryID))
	}

	if err := srv.Start(mux); err != nil {
		return err
	}
	defer srv.Shutdown()
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Shutdown()

	logger.Info("worker started",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}
