// internal/core/services/withdrawal_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/test/helpers"
	"github.com/escoteiros/scout-inventory/test/mocks"
)

type withdrawalMocks struct {
	withdrawals *mocks.MockWithdrawalRepository
	inventory   *mocks.MockInventoryService
	access      *mocks.MockAccessService
	notifier    *mocks.MockNotifier
}

func newWithdrawalService(t *testing.T) (*services.WithdrawalService, withdrawalMocks) {
	ctrl := gomock.NewController(t)
	m := withdrawalMocks{
		withdrawals: mocks.NewMockWithdrawalRepository(ctrl),
		inventory:   mocks.NewMockInventoryService(ctrl),
		access:      mocks.NewMockAccessService(ctrl),
		notifier:    mocks.NewMockNotifier(ctrl),
	}
	svc := services.NewWithdrawalService(m.withdrawals, m.inventory, m.access, m.notifier, helpers.TestLogger())
	return svc, m
}

func stockedItem(quantity int) *domain.InventoryItem {
	item := helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
		i.ID = "item-1"
		i.Quantity = quantity
		i.UnitValue = decimal.RequireFromString("2.50")
	})
	return &item
}

func TestWithdrawalService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      ports.WithdrawalInput
		setupMocks func(withdrawalMocks)
		wantQueued bool
		wantErr    func(error) bool
	}{
		{
			name:  "notification_is_queued",
			input: ports.WithdrawalInput{ItemID: "item-1", Quantity: 4, Notes: " camp "},
			setupMocks: func(m withdrawalMocks) {
				m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil)
				m.withdrawals.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w domain.Withdrawal) (*domain.Withdrawal, error) {
						assert.Equal(t, "op-1", w.UserID)
						assert.Equal(t, "Camp Badge", w.ItemDescription)
						assert.Equal(t, "camp", w.Notes)
						assert.Equal(t, domain.WithdrawalRequested, w.Status)
						w.ID = "wd-1"
						return &w, nil
					})
				m.notifier.EXPECT().NotifyWithdrawal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n domain.WithdrawalNotice) error {
						assert.Equal(t, "wd-1", n.WithdrawalID)
						assert.Equal(t, "op-1@example.org", n.RequesterEmail)
						assert.Equal(t, 10, n.Available)
						assert.Equal(t, "10.00", n.TotalValue.StringFixed(2))
						return nil
					})
			},
			wantQueued: true,
		},
		{
			name:  "queue_failure_still_records_withdrawal",
			input: ports.WithdrawalInput{ItemID: "item-1", Quantity: 1},
			setupMocks: func(m withdrawalMocks) {
				m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil)
				m.withdrawals.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w domain.Withdrawal) (*domain.Withdrawal, error) {
						w.ID = "wd-2"
						return &w, nil
					})
				m.notifier.EXPECT().NotifyWithdrawal(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
		},
		{
			name:    "missing_item_id",
			input:   ports.WithdrawalInput{Quantity: 1},
			wantErr: domain.IsValidation,
		},
		{
			name:    "non_positive_quantity",
			input:   ports.WithdrawalInput{ItemID: "item-1", Quantity: 0},
			wantErr: domain.IsValidation,
		},
		{
			name:  "more_than_in_stock",
			input: ports.WithdrawalInput{ItemID: "item-1", Quantity: 11},
			setupMocks: func(m withdrawalMocks) {
				m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil)
			},
			wantErr: domain.IsValidation,
		},
		{
			name:  "unknown_item",
			input: ports.WithdrawalInput{ItemID: "gone", Quantity: 1},
			setupMocks: func(m withdrawalMocks) {
				m.inventory.EXPECT().Get(gomock.Any(), "gone").Return(nil, domain.NewNotFoundError("inventory item", "gone"))
			},
			wantErr: domain.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWithdrawalService(t)
			m.access.EXPECT().Authorize(gomock.Any(), domain.ActionWithdraw).Return(nil)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			result, err := svc.Create(staff("op-1"), tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQueued, result.NotificationQueued)
			assert.NotEmpty(t, result.Withdrawal.ID)
		})
	}
}

func TestWithdrawalService_CreateWithoutNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	withdrawals := mocks.NewMockWithdrawalRepository(ctrl)
	inventory := mocks.NewMockInventoryService(ctrl)
	access := mocks.NewMockAccessService(ctrl)
	svc := services.NewWithdrawalService(withdrawals, inventory, access, nil, helpers.TestLogger())

	access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
	inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(3), nil)
	withdrawals.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w domain.Withdrawal) (*domain.Withdrawal, error) {
			w.ID = "wd-1"
			return &w, nil
		})

	result, err := svc.Create(staff("op-1"), ports.WithdrawalInput{ItemID: "item-1", Quantity: 3})
	require.NoError(t, err)
	assert.False(t, result.NotificationQueued)
}

func TestWithdrawalService_List(t *testing.T) {
	tests := []struct {
		name      string
		role      domain.Role
		wantOwner string
	}{
		{name: "operator_sees_own", role: domain.RoleOperator, wantOwner: "op-1"},
		{name: "admin_sees_all", role: domain.RoleAdmin, wantOwner: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWithdrawalService(t)
			m.access.EXPECT().Authorize(gomock.Any(), domain.ActionWithdraw).Return(nil)
			m.access.EXPECT().Role(gomock.Any(), "op-1").Return(tt.role, nil)
			m.withdrawals.EXPECT().List(gomock.Any(), tt.wantOwner).Return([]domain.Withdrawal{{ID: "wd-1"}}, nil)

			got, err := svc.List(staff("op-1"))
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestWithdrawalService_Review(t *testing.T) {
	requested := &domain.Withdrawal{ID: "wd-1", ItemID: "item-1", Quantity: 4, Status: domain.WithdrawalRequested}
	approved := &domain.Withdrawal{ID: "wd-1", ItemID: "item-1", Quantity: 4, Status: domain.WithdrawalApproved}

	t.Run("approval_decrements_stock", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), domain.ActionReviewWithdrawals).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil)
		gomock.InOrder(
			m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil),
			// stock edited between the check and the decrement
			m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(7), nil),
		)
		m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalRequested, domain.WithdrawalApproved).
			Return(approved, nil)
		m.inventory.EXPECT().Update(gomock.Any(), "item-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
				require.NotNil(t, patch.Quantity)
				assert.Equal(t, 3, *patch.Quantity)
				return stockedItem(3), nil
			})

		reviewed, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalApproved, reviewed.Status)
	})

	t.Run("failed_decrement_reopens_withdrawal", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), domain.ActionReviewWithdrawals).Return(nil).Times(2)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil).Times(2)
		m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil).Times(4)

		gomock.InOrder(
			m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalRequested, domain.WithdrawalApproved).
				Return(approved, nil),
			m.inventory.EXPECT().Update(gomock.Any(), "item-1", gomock.Any()).
				Return(nil, domain.NewConnectionError("document", "update", errors.New("timeout"))),
			m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalApproved, domain.WithdrawalRequested).
				Return(requested, nil),
			m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalRequested, domain.WithdrawalApproved).
				Return(approved, nil),
			m.inventory.EXPECT().Update(gomock.Any(), "item-1", gomock.Any()).Return(stockedItem(6), nil),
		)

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		require.Error(t, err)
		assert.True(t, domain.IsConnection(err))

		reviewed, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalApproved, reviewed.Status)
	})

	t.Run("stock_taken_after_approval_reopens_withdrawal", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil)
		gomock.InOrder(
			m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(10), nil),
			m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(1), nil),
		)
		gomock.InOrder(
			m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalRequested, domain.WithdrawalApproved).
				Return(approved, nil),
			m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalApproved, domain.WithdrawalRequested).
				Return(requested, nil),
		)

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("rejection_leaves_stock", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil)
		m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", domain.WithdrawalRequested, domain.WithdrawalRejected).
			Return(&domain.Withdrawal{ID: "wd-1", Status: domain.WithdrawalRejected}, nil)

		reviewed, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalRejected)
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalRejected, reviewed.Status)
	})

	t.Run("stock_fell_below_request", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil)
		m.inventory.EXPECT().Get(gomock.Any(), "item-1").Return(stockedItem(2), nil)

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("already_reviewed", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").
			Return(&domain.Withdrawal{ID: "wd-1", Status: domain.WithdrawalRejected}, nil)

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalApproved)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("concurrent_review_loses", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		m.withdrawals.EXPECT().FindByID(gomock.Any(), "wd-1").Return(requested, nil)
		m.withdrawals.EXPECT().Transition(gomock.Any(), "wd-1", gomock.Any(), gomock.Any()).
			Return(nil, domain.NewNotFoundError("withdrawal", "wd-1"))

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalRejected)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("review_back_to_requested", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Review(staff("admin-1"), "wd-1", domain.WithdrawalRequested)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("operators_cannot_review", func(t *testing.T) {
		svc, m := newWithdrawalService(t)
		m.access.EXPECT().Authorize(gomock.Any(), domain.ActionReviewWithdrawals).
			Return(&domain.AuthorizationError{Required: domain.RoleAdmin, Authenticated: true})

		_, err := svc.Review(staff("op-1"), "wd-1", domain.WithdrawalApproved)
		assert.True(t, domain.IsAuthorization(err))
	})
}
