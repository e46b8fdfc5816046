// internal/core/ports/notifier.go
package ports

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// Notifier hands notifications to the background queue.
type Notifier interface {
	NotifyWithdrawal(ctx context.Context, notice domain.WithdrawalNotice) error
}

// ReportScheduler queues inventory report generation.
type ReportScheduler interface {
	EnqueueInventoryReport(ctx context.Context, requestedBy string) (string, error)
}
