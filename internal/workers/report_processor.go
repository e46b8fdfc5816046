// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/adapters/queue"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/report"
)

// ReportProcessor builds inventory workbooks and stores them
type ReportProcessor struct {
	inventory ports.InventoryService
	storage   ports.ObjectStorage
	config    config.ReportsConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(inventory ports.InventoryService, storage ports.ObjectStorage, cfg config.ReportsConfig, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		inventory: inventory,
		storage:   storage,
		config:    cfg,
		logger:    logger.With(slog.String("processor", "report")),
		now:       time.Now,
	}
}

// GenerateInventoryReport handles report:inventory tasks
func (p *ReportProcessor) GenerateInventoryReport(ctx context.Context, t *asynq.Task) error {
	start := p.now()

	payload, err := queue.ParseReportPayload(t)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "generating inventory report",
		slog.String("report_id", payload.ReportID),
		slog.String("requested_by", payload.RequestedBy))

	items, err := p.inventory.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list inventory: %w", err)
	}

	data, err := report.InventoryWorkbookBytes(items)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w: %w", err, asynq.SkipRetry)
	}

	key := p.config.Prefix + payload.ReportID + "/" + report.FileName(start)
	location, err := p.storage.Upload(ctx, key, bytes.NewReader(data), report.ContentType)
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := p.storage.PresignedURL(ctx, key, p.config.URLExpiry)
	if err != nil {
		p.logger.WarnContext(ctx, "report stored but not presigned",
			slog.String("key", key),
			slog.String("error", err.Error()))
		url = location
	}

	p.logger.InfoContext(ctx, "inventory report ready",
		slog.String("report_id", payload.ReportID),
		slog.String("key", key),
		slog.String("url", url),
		slog.Int("items", len(items)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
