// internal/adapters/db/backend.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Backend implements ports.BackendAdapter over the relational tables
// inventory_items and item_requests.
type Backend struct {
	db     ports.Database
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.BackendAdapter = (*Backend)(nil)

// NewBackend creates the relational backend adapter
func NewBackend(db ports.Database, logger *slog.Logger) *Backend {
	return &Backend{
		db:     db,
		logger: logger.With(slog.String("repository", "relational")),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Name implements ports.BackendAdapter
func (b *Backend) Name() string { return backendName }

// Ping implements ports.BackendAdapter
func (b *Backend) Ping(ctx context.Context) error {
	if err := b.db.Ping(ctx); err != nil {
		return domain.NewConnectionError(backendName, "ping", err)
	}
	return nil
}

// ListInventoryItems returns all items newest first. Rows whose stored labels
// do not translate are skipped with a warning.
func (b *Backend) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	records, err := b.InventoryRecords(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, 0, len(records))
	for _, rec := range records {
		item, err := rec.ToDomain()
		if err != nil {
			b.logger.WarnContext(ctx, "skipping unreadable inventory row",
				slog.String("id", rec.ID), "err", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// InventoryRecords returns the raw inventory rows, newest first.
func (b *Backend) InventoryRecords(ctx context.Context) ([]InventoryRecord, error) {
	query, args, err := psql.Select(inventoryColumns...).
		From("inventory_items").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list inventory items", err)
	}

	records, err := collect(rows, scanInventoryRecord)
	if err != nil {
		return nil, classify("scan inventory items", err)
	}
	return records, nil
}

// GetInventoryItem implements ports.BackendAdapter
func (b *Backend) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	key, err := parseID("inventory item", id)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(inventoryColumns...).
		From("inventory_items").
		Where(squirrel.Eq{"id": key.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return b.inventoryRow(ctx, "get inventory item", id, query, args)
}

// CreateInventoryItem implements ports.BackendAdapter
func (b *Backend) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.PrepareForStorage(); err != nil {
		return nil, err
	}
	labels, err := vocab.InventoryLabels(item)
	if err != nil {
		return nil, err
	}

	now := b.now()
	id := uuid.New().String()

	query, args, err := psql.Insert("inventory_items").
		Columns("id", "nivel", "tipo", "descricao", "quantidade",
			"valor_unitario", "valor_total", "ramo", "created_at", "updated_at").
		Values(id, labels.Level, labels.Kind, item.Description, item.Quantity,
			item.UnitValue, item.TotalValue, labels.Branch, now, now).
		Suffix("RETURNING " + strings.Join(inventoryColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := b.inventoryRow(ctx, "create inventory item", id, query, args)
	if err != nil {
		return nil, err
	}

	b.logger.DebugContext(ctx, "inventory item created",
		slog.String("id", created.ID),
		slog.String("total_value", created.TotalValue.StringFixed(2)))

	return created, nil
}

// UpdateInventoryItem merges patch into the stored row in a single statement.
// The total is derived from the new quantity and unit value terms (or the
// stored ones when absent), so concurrent updates cannot persist a mismatched pair.
func (b *Backend) UpdateInventoryItem(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	key, err := parseID("inventory item", id)
	if err != nil {
		return nil, err
	}

	ub := psql.Update("inventory_items").Set("updated_at", b.now())

	if patch.Level != nil {
		label, err := vocab.Level(*patch.Level)
		if err != nil {
			return nil, err
		}
		ub = ub.Set("nivel", label)
	}
	if patch.Kind != nil {
		label, err := vocab.Kind(*patch.Kind)
		if err != nil {
			return nil, err
		}
		ub = ub.Set("tipo", label)
	}
	if patch.Branch != nil {
		label, err := vocab.Branch(*patch.Branch)
		if err != nil {
			return nil, err
		}
		ub = ub.Set("ramo", label)
	}
	if patch.Description != nil {
		ub = ub.Set("descricao", strings.TrimSpace(*patch.Description))
	}

	quantityTerm, unitTerm := "quantidade", "valor_unitario"
	var totalArgs []interface{}
	if patch.Quantity != nil {
		ub = ub.Set("quantidade", *patch.Quantity)
		quantityTerm = "?::integer"
		totalArgs = append(totalArgs, *patch.Quantity)
	}
	if patch.UnitValue != nil {
		unit := patch.UnitValue.Round(2)
		ub = ub.Set("valor_unitario", unit)
		unitTerm = "?::numeric"
		totalArgs = append(totalArgs, unit)
	}
	if len(totalArgs) > 0 {
		ub = ub.Set("valor_total",
			squirrel.Expr(fmt.Sprintf("ROUND(%s * %s, 2)", quantityTerm, unitTerm), totalArgs...))
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": key.String()}).
		Suffix("RETURNING " + strings.Join(inventoryColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	updated, err := b.inventoryRow(ctx, "update inventory item", id, query, args)
	if err != nil {
		return nil, err
	}

	b.logger.DebugContext(ctx, "inventory item updated", slog.String("id", id))
	return updated, nil
}

// DeleteInventoryItem performs a hard delete
func (b *Backend) DeleteInventoryItem(ctx context.Context, id string) error {
	key, err := parseID("inventory item", id)
	if err != nil {
		return err
	}

	tag, err := b.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, key.String())
	if err != nil {
		return classify("delete inventory item", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("inventory item", id)
	}

	b.logger.InfoContext(ctx, "inventory item deleted", slog.String("id", id))
	return nil
}

func (b *Backend) inventoryRow(ctx context.Context, op, id, query string, args []interface{}) (*domain.InventoryItem, error) {
	rec, err := scanInventoryRecord(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("inventory item", id)
		}
		return nil, classify(op, err)
	}

	item, err := rec.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &item, nil
}

// ListItemRequests implements ports.BackendAdapter
func (b *Backend) ListItemRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error) {
	sb := psql.Select(requestColumns...).From("item_requests")
	if filter.Status != "" {
		label, err := vocab.RequestStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		sb = sb.Where(squirrel.Eq{"status": label})
	}

	query, args, err := sb.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list item requests", err)
	}

	records, err := collect(rows, scanRequestRecord)
	if err != nil {
		return nil, classify("scan item requests", err)
	}

	requests := make([]domain.ItemRequest, 0, len(records))
	for _, rec := range records {
		req, err := rec.ToDomain()
		if err != nil {
			b.logger.WarnContext(ctx, "skipping unreadable request row",
				slog.String("id", rec.ID), "err", err)
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// RequestRecords returns the raw item request rows, newest first.
func (b *Backend) RequestRecords(ctx context.Context) ([]RequestRecord, error) {
	query, args, err := psql.Select(requestColumns...).
		From("item_requests").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list item requests", err)
	}

	records, err := collect(rows, scanRequestRecord)
	if err != nil {
		return nil, classify("scan item requests", err)
	}
	return records, nil
}

// CreateItemRequest stores a new request. The status is always pending.
func (b *Backend) CreateItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	if err := req.PrepareForStorage(); err != nil {
		return nil, err
	}
	status, err := vocab.RequestStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := b.now()
	id := uuid.New().String()

	query, args, err := psql.Insert("item_requests").
		Columns("id", "nome", "grupo_escoteiro", "email", "telefone", "item_solicitado",
			"quantidade", "mensagem_adicional", "status", "created_at", "updated_at").
		Values(id, req.Name, req.ScoutGroup, req.Email, req.Phone, req.ItemRequested,
			req.Quantity, nullableText(req.AdditionalMessage), status, now, now).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := b.requestRow(ctx, "create item request", id, query, args)
	if err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "item request created",
		slog.String("id", created.ID),
		slog.String("item", created.ItemRequested))

	return created, nil
}

// UpdateItemRequestStatus implements ports.BackendAdapter
func (b *Backend) UpdateItemRequestStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error) {
	label, err := vocab.RequestStatus(status)
	if err != nil {
		return nil, err
	}
	key, err := parseID("item request", id)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Update("item_requests").
		Set("status", label).
		Set("updated_at", b.now()).
		Where(squirrel.Eq{"id": key.String()}).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	return b.requestRow(ctx, "update item request status", id, query, args)
}

func (b *Backend) requestRow(ctx context.Context, op, id, query string, args []interface{}) (*domain.ItemRequest, error) {
	rec, err := scanRequestRecord(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("item request", id)
		}
		return nil, classify(op, err)
	}

	req, err := rec.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &req, nil
}
