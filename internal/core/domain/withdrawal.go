package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the state of a stock withdrawal
type WithdrawalStatus string

const (
	WithdrawalRequested WithdrawalStatus = "requested"
	WithdrawalApproved  WithdrawalStatus = "approved"
	WithdrawalRejected  WithdrawalStatus = "rejected"
)

// Valid reports whether the status belongs to the withdrawal domain.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalRequested, WithdrawalApproved, WithdrawalRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a withdrawal in status s may move to next.
// Only requested withdrawals can be reviewed, and only once.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	return s == WithdrawalRequested && (next == WithdrawalApproved || next == WithdrawalRejected)
}

// Withdrawal is an authenticated request to take stock out of the inventory.
type Withdrawal struct {
	ID              string           `json:"id"`
	ItemID          string           `json:"itemId"`
	ItemDescription string           `json:"itemDescription"`
	UserID          string           `json:"userId"`
	Quantity        int              `json:"quantity"`
	Notes           string           `json:"notes,omitempty"`
	Status          WithdrawalStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// WithdrawalNotice is the payload of the notification sent for a new withdrawal.
type WithdrawalNotice struct {
	WithdrawalID    string          `json:"withdrawal_id"`
	RequesterName   string          `json:"requester_name"`
	RequesterEmail  string          `json:"requester_email"`
	ItemDescription string          `json:"item_description"`
	Kind            Kind            `json:"kind"`
	Level           Level           `json:"level"`
	Branch          Branch          `json:"branch"`
	Quantity        int             `json:"quantity"`
	Available       int             `json:"available"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Notes           string          `json:"notes,omitempty"`
	RequestedAt     time.Time       `json:"requested_at"`
}
