// internal/core/ports/migration.go
package ports

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// SourceRecord is a raw record read from a migration source, converted on demand.
type SourceRecord[T any] interface {
	SourceID() string
	ToDomain() (T, error)
}

// MigrationSource reads every raw record of each migration phase.
type MigrationSource interface {
	InventorySource(ctx context.Context) ([]SourceRecord[domain.InventoryItem], error)
	RequestSource(ctx context.Context) ([]SourceRecord[domain.ItemRequest], error)
}
