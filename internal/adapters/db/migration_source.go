package db

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

var _ ports.MigrationSource = (*Backend)(nil)

// SourceID implements ports.SourceRecord
func (r InventoryRecord) SourceID() string { return r.ID }

// SourceID implements ports.SourceRecord
func (r RequestRecord) SourceID() string { return r.ID }

// InventorySource returns the raw inventory rows for migration.
func (b *Backend) InventorySource(ctx context.Context) ([]ports.SourceRecord[domain.InventoryItem], error) {
	records, err := b.InventoryRecords(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.SourceRecord[domain.InventoryItem], len(records))
	for i, r := range records {
		out[i] = r
	}
	return out, nil
}

// RequestSource returns the raw item request rows for migration.
func (b *Backend) RequestSource(ctx context.Context) ([]ports.SourceRecord[domain.ItemRequest], error) {
	records, err := b.RequestRecords(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.SourceRecord[domain.ItemRequest], len(records))
	for i, r := range records {
		out[i] = r
	}
	return out, nil
}
