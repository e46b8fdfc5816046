// internal/core/services/withdrawal.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// WithdrawalService runs the stock withdrawal workflow: request, notify, review.
type WithdrawalService struct {
	withdrawals ports.WithdrawalRepository
	inventory   ports.InventoryService
	access      ports.AccessService
	notifier    ports.Notifier
	logger      *slog.Logger
	now         func() time.Time
}

var _ ports.WithdrawalService = (*WithdrawalService)(nil)

// NewWithdrawalService creates the withdrawal workflow. notifier may be nil.
func NewWithdrawalService(withdrawals ports.WithdrawalRepository, inventory ports.InventoryService,
	access ports.AccessService, notifier ports.Notifier, logger *slog.Logger) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: withdrawals,
		inventory:   inventory,
		access:      access,
		notifier:    notifier,
		logger:      logger.With(slog.String("service", "withdrawals")),
		now:         time.Now,
	}
}

// Create records a withdrawal for the caller and queues the notification.
func (s *WithdrawalService) Create(ctx context.Context, input ports.WithdrawalInput) (*ports.WithdrawalResult, error) {
	if err := s.access.Authorize(ctx, domain.ActionWithdraw); err != nil {
		return nil, err
	}
	caller, _ := domain.IdentityFromContext(ctx)

	if strings.TrimSpace(input.ItemID) == "" {
		return nil, domain.NewValidationError("itemId", "itemId is required")
	}
	if input.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "quantity must be positive")
	}

	item, err := s.inventory.Get(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if input.Quantity > item.Quantity {
		return nil, domain.NewValidationError("quantity",
			fmt.Sprintf("requested quantity %d exceeds available stock %d", input.Quantity, item.Quantity))
	}

	saved, err := s.withdrawals.Create(ctx, domain.Withdrawal{
		ItemID:          item.ID,
		ItemDescription: item.Description,
		UserID:          caller.UserID,
		Quantity:        input.Quantity,
		Notes:           strings.TrimSpace(input.Notes),
		Status:          domain.WithdrawalRequested,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save withdrawal: %w", err)
	}

	result := &ports.WithdrawalResult{Withdrawal: *saved}
	if s.notifier == nil {
		return result, nil
	}

	notice := domain.WithdrawalNotice{
		WithdrawalID:    saved.ID,
		RequesterName:   caller.Name,
		RequesterEmail:  caller.Email,
		ItemDescription: item.Description,
		Kind:            item.Kind,
		Level:           item.Level,
		Branch:          item.Branch,
		Quantity:        saved.Quantity,
		Available:       item.Quantity,
		UnitValue:       item.UnitValue,
		TotalValue:      domain.TotalValue(saved.Quantity, item.UnitValue),
		Notes:           saved.Notes,
		RequestedAt:     s.now().UTC(),
	}
	if err := s.notifier.NotifyWithdrawal(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "failed to queue withdrawal notification",
			slog.String("withdrawal_id", saved.ID),
			slog.String("error", err.Error()))
		return result, nil
	}
	result.NotificationQueued = true

	s.logger.InfoContext(ctx, "withdrawal requested",
		slog.String("withdrawal_id", saved.ID),
		slog.String("item_id", item.ID),
		slog.Int("quantity", saved.Quantity))
	return result, nil
}

// List returns every withdrawal to admins and the caller's own to everyone else.
func (s *WithdrawalService) List(ctx context.Context) ([]domain.Withdrawal, error) {
	if err := s.access.Authorize(ctx, domain.ActionWithdraw); err != nil {
		return nil, err
	}
	caller, _ := domain.IdentityFromContext(ctx)

	role, err := s.access.Role(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	owner := caller.UserID
	if role == domain.RoleAdmin {
		owner = ""
	}
	return s.withdrawals.List(ctx, owner)
}

// Review approves or rejects a requested withdrawal. Approval takes the
// quantity out of stock; when that fails the withdrawal goes back to
// requested so the review can be retried.
func (s *WithdrawalService) Review(ctx context.Context, id string, status domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	if err := s.access.Authorize(ctx, domain.ActionReviewWithdrawals); err != nil {
		return nil, err
	}
	if !domain.WithdrawalRequested.CanTransitionTo(status) {
		return nil, domain.NewValidationError("status", "invalid review status: "+string(status))
	}

	current, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domain.NewValidationError("status", "withdrawal was already "+string(current.Status))
	}

	if status == domain.WithdrawalApproved {
		item, err := s.inventory.Get(ctx, current.ItemID)
		if err != nil {
			return nil, err
		}
		if err := checkStock(item, current.Quantity); err != nil {
			return nil, err
		}
	}

	reviewed, err := s.withdrawals.Transition(ctx, id, domain.WithdrawalRequested, status)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewValidationError("status", "withdrawal was already reviewed")
		}
		return nil, err
	}

	if status == domain.WithdrawalApproved {
		if err := s.decrementStock(ctx, reviewed); err != nil {
			s.reopen(ctx, id, err)
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "withdrawal reviewed",
		slog.String("withdrawal_id", id),
		slog.String("status", string(status)))
	return reviewed, nil
}

// decrementStock re-reads the item so the patch is computed from the
// latest stored quantity.
func (s *WithdrawalService) decrementStock(ctx context.Context, w *domain.Withdrawal) error {
	item, err := s.inventory.Get(ctx, w.ItemID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if err := checkStock(item, w.Quantity); err != nil {
		return err
	}
	remaining := item.Quantity - w.Quantity
	if _, err := s.inventory.Update(ctx, item.ID, domain.InventoryPatch{Quantity: &remaining}); err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

// reopen moves an approved withdrawal back to requested after the stock
// could not be decremented.
func (s *WithdrawalService) reopen(ctx context.Context, id string, cause error) {
	logger := s.logger.With(slog.String("withdrawal_id", id), slog.String("cause", cause.Error()))
	if _, err := s.withdrawals.Transition(context.WithoutCancel(ctx), id,
		domain.WithdrawalApproved, domain.WithdrawalRequested); err != nil {
		logger.ErrorContext(ctx, "withdrawal approved but stock not decremented",
			slog.String("error", err.Error()))
		return
	}
	logger.WarnContext(ctx, "approval reverted, stock unchanged")
}

func checkStock(item *domain.InventoryItem, quantity int) error {
	if item.Quantity < quantity {
		return domain.NewValidationError("quantity",
			fmt.Sprintf("only %d in stock, %d requested", item.Quantity, quantity))
	}
	return nil
}
