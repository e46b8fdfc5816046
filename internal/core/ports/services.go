// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
type InventoryService interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	// ListAvailable returns items with stock, ordered by description.
	ListAvailable(ctx context.Context) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	Create(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	Update(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*InventorySummary, error)
}

// RequestService defines the application service port for item requests.
type RequestService interface {
	Create(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error)
}

// WithdrawalService defines the application service port for stock withdrawals.
type WithdrawalService interface {
	Create(ctx context.Context, input WithdrawalInput) (*WithdrawalResult, error)
	List(ctx context.Context) ([]domain.Withdrawal, error)
	Review(ctx context.Context, id string, status domain.WithdrawalStatus) (*domain.Withdrawal, error)
}

// AccessService resolves roles and enforces the access policy.
type AccessService interface {
	Authorize(ctx context.Context, action domain.Action) error
	Role(ctx context.Context, userID string) (domain.Role, error)
	Me(ctx context.Context) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	SetRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error)
	ClaimAdmin(ctx context.Context) (*domain.Profile, error)
}

// WithdrawalInput holds the caller-supplied fields of a withdrawal.
type WithdrawalInput struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// WithdrawalResult is the outcome of a withdrawal request.
type WithdrawalResult struct {
	Withdrawal         domain.Withdrawal `json:"withdrawal"`
	NotificationQueued bool              `json:"notificationQueued"`
}

// InventorySummary aggregates stock by kind and branch.
type InventorySummary struct {
	Items           int                   `json:"items"`
	Units           int                   `json:"units"`
	TotalValue      string                `json:"totalValue"`
	ByKind          map[string]StockTotal `json:"byKind"`
	ByBranch        map[string]StockTotal `json:"byBranch"`
	OutOfStock      int                   `json:"outOfStock"`
	PendingRequests int                   `json:"pendingRequests"`
}

// StockTotal is one aggregation bucket of the inventory summary.
type StockTotal struct {
	Items      int    `json:"items"`
	Units      int    `json:"units"`
	TotalValue string `json:"totalValue"`
}
