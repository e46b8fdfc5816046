// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/app"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
	"github.com/escoteiros/scout-inventory/internal/report"
)

func main() {
	var (
		workbook    = flag.String("file", "", "Optional xlsx workbook in the export layout to import")
		skipSamples = flag.Bool("skip-samples", false, "Do not insert sample documents into empty collections")
		dryRun      = flag.Bool("dry-run", false, "Parse the workbook without writing it")
		timeout     = flag.Duration("timeout", 2*time.Minute, "Overall deadline")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).With(slog.String("component", "seeder"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, slogger, *workbook, *skipSamples, *dryRun); err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, workbook string, skipSamples, dryRun bool) error {
	var rows []report.ImportRow
	if workbook != "" {
		data, err := os.ReadFile(workbook)
		if err != nil {
			return fmt.Errorf("read workbook: %w", err)
		}
		rows, err = report.ParseInventoryWorkbook(data)
		if err != nil {
			return fmt.Errorf("parse workbook: %w", err)
		}
		logger.Info("workbook loaded", slog.String("file", workbook), slog.Int("rows", len(rows)))
	}
	if dryRun {
		for _, row := range rows {
			if row.Err != nil {
				logger.Warn("row would be skipped", slog.Int("row", row.Row), slog.String("error", row.Err.Error()))
			}
		}
		return nil
	}

	// Indexes are always ensured here, whatever MONGODB_ENSURE_INDEXES says
	cfg.Mongo.EnsureIndexesOnStart = true
	client, err := app.ConnectMongo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())
	logger.Info("indexes ensured")

	backend := mongo.NewBackend(client, logger)

	if !skipSamples {
		result, err := backend.SeedIfEmpty(ctx)
		if err != nil {
			return err
		}
		logger.Info("sample data seeded",
			slog.Int("inventory", result.Inventory),
			slog.Int("requests", result.Requests))
	}

	created, failed := 0, 0
	for _, row := range rows {
		if row.Err == nil {
			_, row.Err = backend.CreateInventoryItem(ctx, row.Item)
		}
		if row.Err != nil {
			failed++
			logger.Warn("row skipped", slog.Int("row", row.Row), slog.String("error", row.Err.Error()))
			continue
		}
		created++
	}
	if len(rows) > 0 {
		logger.Info("workbook imported",
			slog.String("summary", fmt.Sprintf("%d/%d", created, len(rows))),
			slog.Int("failed", failed))
	}
	return nil
}
