// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	storage ports.ObjectStorage
	config  config.ReportsConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(storage ports.ObjectStorage, cfg config.ReportsConfig, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		storage: storage,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "cleanup")),
		now:     time.Now,
	}
}

// CleanupReports deletes stored reports older than the retention window.
// A failed delete is logged and retried on the next run.
func (p *CleanupProcessor) CleanupReports(ctx context.Context, _ *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up old reports", slog.String("prefix", p.config.Prefix))

	objects, err := p.storage.List(ctx, p.config.Prefix)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	cutoff := p.now().Add(-p.config.Retention)
	var deleted, failed int
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := p.storage.Delete(ctx, obj.Key); err != nil {
			failed++
			p.logger.WarnContext(ctx, "failed to delete report",
				slog.String("key", obj.Key),
				slog.String("error", err.Error()))
			continue
		}
		deleted++
	}

	p.logger.InfoContext(ctx, "old reports cleaned up",
		slog.Int("files_deleted", deleted),
		slog.Int("files_failed", failed),
		slog.Int("files_kept", len(objects)-deleted-failed))
	return nil
}
