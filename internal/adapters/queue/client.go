// internal/adapters/queue/client.go

// Package queue hands background work to the asynq worker.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// Enqueuer is the part of *asynq.Client the queue uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client enqueues notification and report tasks.
type Client struct {
	enqueuer Enqueuer
	maxRetry int
	logger   *slog.Logger
}

var (
	_ ports.Notifier        = (*Client)(nil)
	_ ports.ReportScheduler = (*Client)(nil)
)

// NewClient wraps an asynq client. maxRetry <= 0 keeps asynq's default.
func NewClient(enqueuer Enqueuer, maxRetry int, logger *slog.Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		maxRetry: maxRetry,
		logger:   logger.With(slog.String("component", "queue")),
	}
}

// NotifyWithdrawal queues the withdrawal e-mail. One notice per withdrawal is
// kept in the queue.
func (c *Client) NotifyWithdrawal(ctx context.Context, notice domain.WithdrawalNotice) error {
	task, err := NewWithdrawalNoticeTask(notice)
	if err != nil {
		return err
	}
	opts := c.options(QueueCritical, asynq.TaskID("withdrawal:"+notice.WithdrawalID), asynq.Timeout(time.Minute))

	info, err := c.enqueuer.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue withdrawal notice: %w", err)
	}
	c.logger.DebugContext(ctx, "withdrawal notice queued",
		slog.String("task_id", info.ID),
		slog.String("withdrawal_id", notice.WithdrawalID))
	return nil
}

// EnqueueInventoryReport queues report generation and returns the report id.
func (c *Client) EnqueueInventoryReport(ctx context.Context, requestedBy string) (string, error) {
	reportID := uuid.NewString()
	task, err := NewInventoryReportTask(ReportPayload{ReportID: reportID, RequestedBy: requestedBy})
	if err != nil {
		return "", err
	}
	opts := c.options(QueueDefault, asynq.TaskID("report:"+reportID), asynq.Timeout(5*time.Minute))

	if _, err := c.enqueuer.EnqueueContext(ctx, task, opts...); err != nil {
		return "", fmt.Errorf("failed to enqueue inventory report: %w", err)
	}
	c.logger.InfoContext(ctx, "inventory report queued",
		slog.String("report_id", reportID),
		slog.String("requested_by", requestedBy))
	return reportID, nil
}

func (c *Client) options(queue string, extra ...asynq.Option) []asynq.Option {
	opts := append([]asynq.Option{asynq.Queue(queue)}, extra...)
	if c.maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(c.maxRetry))
	}
	return opts
}
