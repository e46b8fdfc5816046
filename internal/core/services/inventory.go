// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

var (
	inventoryListKey = ports.CacheKey(ports.PrefixInventory, "list")
	inventoryPattern = ports.CachePattern(ports.PrefixInventory)
)

// InventoryService handles inventory business logic
type InventoryService struct {
	backend  ports.BackendAdapter
	cache    ports.CacheRepository
	access   ports.AccessService
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. cache may be nil.
func NewInventoryService(backend ports.BackendAdapter, cache ports.CacheRepository, access ports.AccessService,
	cacheTTL time.Duration, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		backend:  backend,
		cache:    cache,
		access:   access,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("service", "inventory")),
	}
}

// List returns every item, newest first. Results are served from the cache
// when one is configured.
func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryItem, error) {
	if err := authorize(ctx, s.access, domain.ActionViewInventory); err != nil {
		return nil, err
	}
	if s.cache == nil {
		return s.backend.ListInventoryItems(ctx)
	}

	var (
		items    []domain.InventoryItem
		fetchErr error
	)
	err := s.cache.GetOrSet(ctx, inventoryListKey, &items, func() (interface{}, error) {
		fresh, err := s.backend.ListInventoryItems(ctx)
		fetchErr = err
		return fresh, err
	}, s.cacheTTL)
	if err == nil {
		return items, nil
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	s.logger.WarnContext(ctx, "inventory cache unavailable, reading through",
		slog.String("error", err.Error()))
	return s.backend.ListInventoryItems(ctx)
}

// ListAvailable returns items with stock, ordered by description.
func (s *InventoryService) ListAvailable(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			available = append(available, item)
		}
	}
	slices.SortStableFunc(available, func(a, b domain.InventoryItem) int {
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	})
	return available, nil
}

// Get returns one item
func (s *InventoryService) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	if err := authorize(ctx, s.access, domain.ActionViewInventory); err != nil {
		return nil, err
	}
	return s.backend.GetInventoryItem(ctx, id)
}

// Create validates and stores a new item
func (s *InventoryService) Create(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := authorize(ctx, s.access, domain.ActionEditInventory); err != nil {
		return nil, err
	}
	if err := item.PrepareForStorage(); err != nil {
		return nil, err
	}

	created, err := s.backend.CreateInventoryItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "inventory item created",
		slog.String("id", created.ID),
		slog.String("kind", string(created.Kind)),
		slog.Int("quantity", created.Quantity))
	return created, nil
}

// Update applies a partial update
func (s *InventoryService) Update(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	if err := authorize(ctx, s.access, domain.ActionEditInventory); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("body", "no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateInventoryItem(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "inventory item updated", slog.String("id", id))
	return updated, nil
}

// Delete removes an item. Admin only.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := authorize(ctx, s.access, domain.ActionDeleteInventory); err != nil {
		return err
	}
	if err := s.backend.DeleteInventoryItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "inventory item deleted", slog.String("id", id))
	return nil
}

// Summary aggregates stock per kind and per branch.
func (s *InventoryService) Summary(ctx context.Context) (*ports.InventorySummary, error) {
	if err := authorize(ctx, s.access, domain.ActionViewSummary); err != nil {
		return nil, err
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.backend.ListItemRequests(ctx, domain.RequestFilter{Status: domain.RequestPending})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	type bucket struct {
		items, units int
		value        decimal.Decimal
	}
	var (
		total    bucket
		byKind   = map[string]*bucket{}
		byBranch = map[string]*bucket{}
		empty    int
	)
	add := func(m map[string]*bucket, key string, item domain.InventoryItem) {
		b, ok := m[key]
		if !ok {
			b = &bucket{}
			m[key] = b
		}
		b.items++
		b.units += item.Quantity
		b.value = b.value.Add(item.TotalValue)
	}
	for _, item := range items {
		total.items++
		total.units += item.Quantity
		total.value = total.value.Add(item.TotalValue)
		if item.Quantity == 0 {
			empty++
		}
		add(byKind, string(item.Kind), item)
		add(byBranch, string(item.Branch), item)
	}

	out := func(m map[string]*bucket) map[string]ports.StockTotal {
		res := make(map[string]ports.StockTotal, len(m))
		for k, b := range m {
			res[k] = ports.StockTotal{Items: b.items, Units: b.units, TotalValue: b.value.StringFixed(2)}
		}
		return res
	}
	return &ports.InventorySummary{
		Items:           total.items,
		Units:           total.units,
		TotalValue:      total.value.StringFixed(2),
		ByKind:          out(byKind),
		ByBranch:        out(byBranch),
		OutOfStock:      empty,
		PendingRequests: len(pending),
	}, nil
}

// invalidate drops cached listings. Failures are logged only.
func (s *InventoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, inventoryPattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate inventory cache",
			slog.String("error", err.Error()))
	}
}
