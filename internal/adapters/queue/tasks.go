// internal/adapters/queue/tasks.go
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

const (
	TypeWithdrawalNotice = "notification:withdrawal"
	TypeInventoryReport  = "report:inventory"
	TypeCleanupReports   = "cleanup:reports"
)

// Queue names and their priorities.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ReportPayload is the payload of report:inventory tasks.
type ReportPayload struct {
	ReportID    string `json:"report_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// NewWithdrawalNoticeTask wraps a withdrawal notice.
func NewWithdrawalNoticeTask(notice domain.WithdrawalNotice, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(notice)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal notice: %w", err)
	}
	return asynq.NewTask(TypeWithdrawalNotice, payload, opts...), nil
}

// NewInventoryReportTask asks the worker to build and store an inventory workbook.
func NewInventoryReportTask(p ReportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeInventoryReport, payload, opts...), nil
}

// NewCleanupReportsTask removes stored reports past their retention.
func NewCleanupReportsTask(opts ...asynq.Option) *asynq.Task {
	return asynq.NewTask(TypeCleanupReports, nil, opts...)
}

// ParseWithdrawalNotice decodes a notification:withdrawal payload.
func ParseWithdrawalNotice(t *asynq.Task) (domain.WithdrawalNotice, error) {
	var notice domain.WithdrawalNotice
	if err := json.Unmarshal(t.Payload(), &notice); err != nil {
		return notice, fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	return notice, nil
}

// ParseReportPayload decodes a report:inventory payload.
func ParseReportPayload(t *asynq.Task) (ReportPayload, error) {
	var p ReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	return p, nil
}
