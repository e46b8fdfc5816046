// cmd/migrate/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/app"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
)

const (
	destDocument = "document"
	destEdge     = "edge"
)

func main() {
	var (
		dest       = flag.String("dest", destDocument, "Destination: document (MongoDB directly) or edge (functions server)")
		reportFile = flag.String("report", "", "Write the JSON migration report to this file")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).With(slog.String("component", "migrate"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, cfg, *dest, slogger)
	if report != nil {
		for _, phase := range report.Phases {
			fmt.Printf("%s: %d/%d migrated, %d failed\n", phase.Phase, phase.Migrated, phase.Total, phase.Failed)
			for _, f := range phase.Failures {
				fmt.Printf("  %s\n", f)
			}
		}
		if *reportFile != "" {
			if werr := writeReport(*reportFile, report); werr != nil {
				slogger.Error("failed to write report", slog.String("error", werr.Error()))
			}
		}
	}
	if err != nil {
		slogger.Error("migration finished with errors", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dest string, logger *slog.Logger) (*services.MigrationReport, error) {
	database, err := app.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	var target ports.BackendAdapter
	switch dest {
	case destDocument:
		client, err := app.ConnectMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer client.Close(context.Background())
		target = mongo.NewBackend(client, logger)
	case destEdge:
		target = app.NewEdgeClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown destination %q", dest)
	}

	if err := target.Ping(ctx); err != nil {
		return nil, err
	}

	return services.NewMigrationService(db.NewBackend(database, logger), "relational", target, logger).Run(ctx)
}

func writeReport(path string, report *services.MigrationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
