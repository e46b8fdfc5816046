// internal/adapters/mongo/backend.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

const backendName = "document"

// Collection is the subset of *mongo.Collection the backend uses.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*driver.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*driver.InsertManyResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*driver.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *driver.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.FindOneAndUpdateOptions) *driver.SingleResult
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*driver.DeleteResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// Backend implements ports.BackendAdapter over the inventory and item request collections
type Backend struct {
	inventory Collection
	requests  Collection
	ping      func(ctx context.Context) error
	logger    *slog.Logger
	now       func() time.Time
}

var (
	_ ports.BackendAdapter = (*Backend)(nil)
	_ ports.RecordImporter = (*Backend)(nil)
)

// NewBackend creates the document backend over an open client
func NewBackend(client *Client, logger *slog.Logger) *Backend {
	b := NewBackendWithCollections(client.Inventory(), client.Requests(), logger)
	b.ping = client.Ping
	return b
}

// NewBackendWithCollections creates the document backend over the given collections
func NewBackendWithCollections(inventory, requests Collection, logger *slog.Logger) *Backend {
	return &Backend{
		inventory: inventory,
		requests:  requests,
		logger:    logger.With(slog.String("repository", backendName)),
		now:       func() time.Time { return storedTime(time.Now()) },
	}
}

// Name implements ports.BackendAdapter
func (b *Backend) Name() string { return backendName }

// Ping implements ports.BackendAdapter
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	if err := b.ping(ctx); err != nil {
		return domain.NewConnectionError(backendName, "ping", err)
	}
	return nil
}

// classify maps a driver error onto the domain error taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case driver.IsDuplicateKeyError(err):
		return domain.NewValidationError("_id", err.Error())
	case driver.IsNetworkError(err), driver.IsTimeout(err),
		errors.Is(err, driver.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.NewConnectionError(backendName, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// objectID rejects identifiers that cannot be a document key; such ids cannot exist.
func objectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewNotFoundError(resource, id)
	}
	return oid, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// ListInventoryItems returns all items newest first. Documents whose stored
// labels do not translate are skipped with a warning.
func (b *Backend) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	docs, err := b.InventoryDocuments(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, 0, len(docs))
	for _, doc := range docs {
		item, err := doc.ToDomain()
		if err != nil {
			b.logger.WarnContext(ctx, "skipping unreadable inventory document",
				slog.String("id", doc.ID.Hex()), "err", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// InventoryDocuments returns the raw inventory documents, newest first.
func (b *Backend) InventoryDocuments(ctx context.Context) ([]InventoryDocument, error) {
	cur, err := b.inventory.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, classify("list inventory items", err)
	}

	var docs []InventoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("decode inventory items", err)
	}
	return docs, nil
}

// GetInventoryItem implements ports.BackendAdapter
func (b *Backend) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	oid, err := objectID("inventory item", id)
	if err != nil {
		return nil, err
	}
	return b.inventoryResult(b.inventory.FindOne(ctx, bson.M{"_id": oid}), "get inventory item", id)
}

// CreateInventoryItem implements ports.BackendAdapter
func (b *Backend) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.PrepareForStorage(); err != nil {
		return nil, err
	}
	now := b.now()
	item.CreatedAt, item.UpdatedAt = now, now
	return b.insertInventory(ctx, item)
}

// ImportInventoryItem stores item keeping its timestamps.
func (b *Backend) ImportInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.PrepareForStorage(); err != nil {
		return nil, err
	}
	now := b.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	return b.insertInventory(ctx, item)
}

func (b *Backend) insertInventory(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	doc, err := newInventoryDocument(item)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := b.inventory.InsertOne(ctx, doc); err != nil {
		return nil, classify("create inventory item", err)
	}

	created, err := doc.ToDomain()
	if err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "inventory item created",
		slog.String("id", created.ID),
		slog.String("description", created.Description))
	return &created, nil
}

// UpdateInventoryItem reads the item, merges patch and writes every field,
// including the quantity/unit/total triple, in one $set.
func (b *Backend) UpdateInventoryItem(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := b.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(current); err != nil {
		return nil, err
	}
	labels, err := vocab.InventoryLabels(*current)
	if err != nil {
		return nil, err
	}

	oid, _ := primitive.ObjectIDFromHex(current.ID)
	update := bson.M{"$set": bson.M{
		"nivel":         labels.Level,
		"tipo":          labels.Kind,
		"descricao":     current.Description,
		"quantidade":    current.Quantity,
		"valorUnitario": current.UnitValue.InexactFloat64(),
		"valorTotal":    current.TotalValue.InexactFloat64(),
		"ramo":          labels.Branch,
		"updatedAt":     b.now(),
	}}

	res := b.inventory.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	updated, err := b.inventoryResult(res, "update inventory item", id)
	if err != nil {
		return nil, err
	}

	b.logger.DebugContext(ctx, "inventory item updated", slog.String("id", id))
	return updated, nil
}

// DeleteInventoryItem performs a hard delete
func (b *Backend) DeleteInventoryItem(ctx context.Context, id string) error {
	oid, err := objectID("inventory item", id)
	if err != nil {
		return err
	}

	res, err := b.inventory.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classify("delete inventory item", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("inventory item", id)
	}

	b.logger.InfoContext(ctx, "inventory item deleted", slog.String("id", id))
	return nil
}

func (b *Backend) inventoryResult(res *driver.SingleResult, op, id string) (*domain.InventoryItem, error) {
	var doc InventoryDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("inventory item", id)
		}
		return nil, classify(op, err)
	}

	item, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &item, nil
}

// ListItemRequests implements ports.BackendAdapter
func (b *Backend) ListItemRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error) {
	query := bson.M{}
	if filter.Status != "" {
		status, err := vocab.RequestStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query["status"] = status
	}

	cur, err := b.requests.Find(ctx, query, newestFirst())
	if err != nil {
		return nil, classify("list item requests", err)
	}

	var docs []RequestDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("decode item requests", err)
	}

	requests := make([]domain.ItemRequest, 0, len(docs))
	for _, doc := range docs {
		req, err := doc.ToDomain()
		if err != nil {
			b.logger.WarnContext(ctx, "skipping unreadable item request document",
				slog.String("id", doc.ID.Hex()), "err", err)
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// CreateItemRequest stores a new request with status pending
func (b *Backend) CreateItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	if err := req.PrepareForStorage(); err != nil {
		return nil, err
	}
	now := b.now()
	req.CreatedAt, req.UpdatedAt = now, now
	return b.insertRequest(ctx, req)
}

// ImportItemRequest stores req keeping its status and timestamps.
func (b *Backend) ImportItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	status := req.Status
	if err := req.PrepareForStorage(); err != nil {
		return nil, err
	}
	if status.Valid() {
		req.Status = status
	}
	now := b.now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	return b.insertRequest(ctx, req)
}

func (b *Backend) insertRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	doc, err := newRequestDocument(req)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := b.requests.InsertOne(ctx, doc); err != nil {
		return nil, classify("create item request", err)
	}

	created, err := doc.ToDomain()
	if err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "item request created",
		slog.String("id", created.ID),
		slog.String("item", created.ItemRequested))
	return &created, nil
}

// UpdateItemRequestStatus implements ports.BackendAdapter
func (b *Backend) UpdateItemRequestStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error) {
	label, err := vocab.RequestStatus(status)
	if err != nil {
		return nil, err
	}
	oid, err := objectID("item request", id)
	if err != nil {
		return nil, err
	}

	res := b.requests.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": label, "updatedAt": b.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var doc RequestDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("item request", id)
		}
		return nil, classify("update item request status", err)
	}

	req, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to update item request status: %w", err)
	}

	b.logger.InfoContext(ctx, "item request status updated",
		slog.String("id", id),
		slog.String("status", string(status)))
	return &req, nil
}
