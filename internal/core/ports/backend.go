// internal/core/ports/backend.go
package ports

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// BackendAdapter is the persistence contract for inventory items and item requests.
// It is implemented by the relational adapter, the document adapter and the
// functions-server client, and selected at startup.
type BackendAdapter interface {
	Name() string
	Ping(ctx context.Context) error

	// ListInventoryItems returns every item, newest first.
	ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error

	// ListItemRequests returns requests matching filter ordered by createdAt, newest first.
	ListItemRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error)
	CreateItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error)
	UpdateItemRequestStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error)
}

// RecordImporter is implemented by backends that can store records verbatim,
// keeping their status and timestamps. Used when moving data between backends.
type RecordImporter interface {
	ImportInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	ImportItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error)
}
