// internal/adapters/mongo/setup.go
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// InventoryIndexes are created on the inventory collection.
func InventoryIndexes() []driver.IndexModel {
	return []driver.IndexModel{
		{Keys: bson.D{{Key: "descricao", Value: "text"}}, Options: options.Index().SetName("descricao_text")},
		{Keys: bson.D{{Key: "tipo", Value: 1}}},
		{Keys: bson.D{{Key: "ramo", Value: 1}}},
		{Keys: bson.D{{Key: "nivel", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
}

// RequestIndexes are created on the item request collection.
func RequestIndexes() []driver.IndexModel {
	return []driver.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
}

// EnsureIndexes creates the query indexes of both collections. Existing
// indexes with the same keys are left as they are.
func EnsureIndexes(ctx context.Context, client *Client) error {
	if _, err := client.Inventory().Indexes().CreateMany(ctx, InventoryIndexes()); err != nil {
		return fmt.Errorf("failed to create inventory indexes: %w", err)
	}
	if _, err := client.Requests().Indexes().CreateMany(ctx, RequestIndexes()); err != nil {
		return fmt.Errorf("failed to create item request indexes: %w", err)
	}

	client.logger.InfoContext(ctx, "document store indexes ensured",
		slog.Int("inventory", len(InventoryIndexes())),
		slog.Int("requests", len(RequestIndexes())))
	return nil
}

// SeedResult reports how many sample documents were inserted.
type SeedResult struct {
	Inventory int `json:"inventory"`
	Requests  int `json:"requests"`
}

// SampleInventory returns the sample items inserted into an empty store.
func SampleInventory() []domain.InventoryItem {
	return []domain.InventoryItem{
		{Level: domain.Level1, Kind: domain.KindSpecialtyBadge, Branch: domain.BranchScout,
			Description: "Distintivo de Especialidade - Acampamento", Quantity: 50, UnitValue: decimal.RequireFromString("1.40")},
		{Level: domain.LevelNone, Kind: domain.KindRing, Branch: domain.BranchAll,
			Description: "Arganel de Grupo - GE Arés 193", Quantity: 25, UnitValue: decimal.RequireFromString("4.00")},
		{Level: domain.Level2, Kind: domain.KindProgressionBadge, Branch: domain.BranchScout,
			Description: "Distintivo de Progressão - Escoteiro", Quantity: 30, UnitValue: decimal.RequireFromString("3.90")},
		{Level: domain.LevelNone, Kind: domain.KindBadge, Branch: domain.BranchLeader,
			Description: "Distintivo de Escotista - Padrão", Quantity: 15, UnitValue: decimal.RequireFromString("2.50")},
		{Level: domain.LevelNone, Kind: domain.KindCertificate, Branch: domain.BranchAll,
			Description: "Certificado de Participação - Acampamento", Quantity: 100, UnitValue: decimal.RequireFromString("2.00")},
	}
}

// SampleRequests returns the sample item requests inserted into an empty store.
func SampleRequests(now time.Time) []domain.ItemRequest {
	return []domain.ItemRequest{
		{Name: "João Silva", Email: "joao.silva@email.com", Phone: "(11) 99999-9999",
			ScoutGroup: "GE Arés 193", ItemRequested: "Distintivo de Especialidade - Acampamento", Quantity: 2,
			AdditionalMessage: "Preciso urgente para a cerimônia desta semana",
			Status:            domain.RequestPending, CreatedAt: now, UpdatedAt: now},
		{Name: "Maria Santos", Email: "maria.santos@email.com", Phone: "(11) 88888-8888",
			ScoutGroup: "GE Arés 193", ItemRequested: "Arganel de Grupo - GE Arés 193", Quantity: 1,
			Status: domain.RequestResolved, CreatedAt: now.Add(-24 * time.Hour), UpdatedAt: now},
	}
}

// SeedIfEmpty inserts the sample documents into each collection that has none.
func (b *Backend) SeedIfEmpty(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	now := b.now()

	count, err := b.inventory.CountDocuments(ctx, bson.M{})
	if err != nil {
		return result, classify("count inventory items", err)
	}
	if count == 0 {
		docs := make([]interface{}, 0, len(SampleInventory()))
		for _, item := range SampleInventory() {
			item.CreatedAt, item.UpdatedAt = now, now
			item.CalculateTotalValue()
			doc, err := newInventoryDocument(item)
			if err != nil {
				return result, err
			}
			doc.ID = primitive.NewObjectID()
			docs = append(docs, doc)
		}
		if _, err := b.inventory.InsertMany(ctx, docs); err != nil {
			return result, classify("seed inventory items", err)
		}
		result.Inventory = len(docs)
	} else {
		b.logger.InfoContext(ctx, "inventory collection already populated", slog.Int64("count", count))
	}

	count, err = b.requests.CountDocuments(ctx, bson.M{})
	if err != nil {
		return result, classify("count item requests", err)
	}
	if count == 0 {
		samples := SampleRequests(now)
		docs := make([]interface{}, 0, len(samples))
		for _, req := range samples {
			doc, err := newRequestDocument(req)
			if err != nil {
				return result, err
			}
			doc.ID = primitive.NewObjectID()
			docs = append(docs, doc)
		}
		if _, err := b.requests.InsertMany(ctx, docs); err != nil {
			return result, classify("seed item requests", err)
		}
		result.Requests = len(docs)
	} else {
		b.logger.InfoContext(ctx, "item request collection already populated", slog.Int64("count", count))
	}

	b.logger.InfoContext(ctx, "document store seeded",
		slog.Int("inventory", result.Inventory),
		slog.Int("requests", result.Requests))
	return result, nil
}
