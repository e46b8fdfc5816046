package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

func newBackend() (*mongo.Backend, *helpers.FakeCollection, *helpers.FakeCollection) {
	inventory, requests := helpers.NewFakeCollection(), helpers.NewFakeCollection()
	return mongo.NewBackendWithCollections(inventory, requests, helpers.TestLogger()), inventory, requests
}

func TestBackend_CreateAndGetInventoryItem(t *testing.T) {
	backend, inventory, _ := newBackend()
	ctx := context.Background()

	created, err := backend.CreateInventoryItem(ctx, helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
		i.UnitValue = decimal.RequireFromString("1.405")
		i.Quantity = 3
		i.Branch = domain.BranchCub
	}))
	require.NoError(t, err)

	_, err = primitive.ObjectIDFromHex(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.41", created.UnitValue.StringFixed(2))
	assert.Equal(t, "4.23", created.TotalValue.StringFixed(2))
	assert.Equal(t, time.UTC, created.CreatedAt.Location())
	assert.Equal(t, created.CreatedAt, created.CreatedAt.Truncate(time.Millisecond))

	stored := inventory.Docs()[0]
	assert.Equal(t, "Distintivo", stored.Lookup("tipo").StringValue())
	assert.Equal(t, "Lobinho", stored.Lookup("ramo").StringValue())
	assert.Equal(t, 1.41, stored.Lookup("valorUnitario").Double())
	assert.Equal(t, 4.23, stored.Lookup("valorTotal").Double())

	got, err := backend.GetInventoryItem(ctx, created.ID)
	require.NoError(t, err)
	helpers.CompareInventoryItems(t, created, got)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestBackend_CreateInventoryItem_Invalid(t *testing.T) {
	backend, inventory, _ := newBackend()

	_, err := backend.CreateInventoryItem(context.Background(), helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
		i.Kind = "Lanyard"
	}))
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, inventory.Len())
}

func TestBackend_GetInventoryItem_NotFound(t *testing.T) {
	backend, _, _ := newBackend()

	tests := []struct {
		name string
		id   string
	}{
		{name: "malformed_object_id", id: "not-an-object-id"},
		{name: "unknown_object_id", id: primitive.NewObjectID().Hex()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backend.GetInventoryItem(context.Background(), tt.id)
			assert.True(t, domain.IsNotFound(err))
		})
	}
}

func TestBackend_UpdateInventoryItem(t *testing.T) {
	backend, inventory, _ := newBackend()
	ctx := context.Background()

	created, err := backend.CreateInventoryItem(ctx, helpers.NewTestInventoryItem())
	require.NoError(t, err)

	qty := 7
	desc := "  Camp Badge 2024 "
	updated, err := backend.UpdateInventoryItem(ctx, created.ID, domain.InventoryPatch{Quantity: &qty, Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, "Camp Badge 2024", updated.Description)
	assert.Equal(t, "35.00", updated.TotalValue.StringFixed(2))
	assert.Equal(t, domain.KindBadge, updated.Kind)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	stored := inventory.Docs()[0]
	assert.Equal(t, 35.0, stored.Lookup("valorTotal").Double())
}

func TestBackend_UpdateInventoryItem_Errors(t *testing.T) {
	backend, _, _ := newBackend()
	ctx := context.Background()

	negative := -1
	_, err := backend.UpdateInventoryItem(ctx, primitive.NewObjectID().Hex(), domain.InventoryPatch{Quantity: &negative})
	assert.True(t, domain.IsValidation(err))

	qty := 1
	_, err = backend.UpdateInventoryItem(ctx, primitive.NewObjectID().Hex(), domain.InventoryPatch{Quantity: &qty})
	assert.True(t, domain.IsNotFound(err))
}

func TestBackend_DeleteInventoryItem(t *testing.T) {
	backend, inventory, _ := newBackend()
	ctx := context.Background()

	created, err := backend.CreateInventoryItem(ctx, helpers.NewTestInventoryItem())
	require.NoError(t, err)

	require.NoError(t, backend.DeleteInventoryItem(ctx, created.ID))
	assert.Zero(t, inventory.Len())

	assert.True(t, domain.IsNotFound(backend.DeleteInventoryItem(ctx, created.ID)))
	assert.True(t, domain.IsNotFound(backend.DeleteInventoryItem(ctx, "bogus")))
}

func TestBackend_ListInventoryItems(t *testing.T) {
	backend, inventory, _ := newBackend()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, item := range helpers.NewTestInventoryItems(3) {
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := backend.ImportInventoryItem(ctx, item)
		require.NoError(t, err)
	}
	// A label the vocabulary does not know is skipped.
	_, err := inventory.InsertOne(ctx, bson.M{
		"_id": primitive.NewObjectID(), "nivel": "Não Tem", "tipo": "Cordão", "descricao": "Cordão de Apito",
		"quantidade": 15, "valorUnitario": 2.5, "valorTotal": 37.5, "ramo": "Escotista",
		"createdAt": base.Add(10 * time.Hour), "updatedAt": base,
	})
	require.NoError(t, err)

	items, err := backend.ListInventoryItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Test Item 3", items[0].Description)
	assert.Equal(t, "Test Item 1", items[2].Description)
	assert.True(t, items[2].CreatedAt.Equal(base))
}

func TestBackend_ItemRequests(t *testing.T) {
	backend, _, requests := newBackend()
	ctx := context.Background()

	first, err := backend.CreateItemRequest(ctx, helpers.NewTestItemRequest(func(r *domain.ItemRequest) {
		r.Status = domain.RequestResolved
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, first.Status)

	stored := requests.Docs()[0]
	assert.Equal(t, "pendente", stored.Lookup("status").StringValue())
	assert.Equal(t, "GE Tupinambás 12", stored.Lookup("grupoEscoteiro").StringValue())
	_, err = stored.LookupErr("mensagemAdicional")
	assert.Error(t, err, "empty message is omitted")

	_, err = backend.CreateItemRequest(ctx, helpers.NewTestItemRequest(func(r *domain.ItemRequest) {
		r.AdditionalMessage = "for the new patrol"
	}))
	require.NoError(t, err)

	resolved, err := backend.UpdateItemRequestStatus(ctx, first.ID, domain.RequestResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestResolved, resolved.Status)
	assert.False(t, resolved.UpdatedAt.Before(first.UpdatedAt))

	pending, err := backend.ListItemRequests(ctx, domain.RequestFilter{Status: domain.RequestPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "for the new patrol", pending[0].AdditionalMessage)

	all, err := backend.ListItemRequests(ctx, domain.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBackend_UpdateItemRequestStatus_Errors(t *testing.T) {
	backend, _, _ := newBackend()
	ctx := context.Background()

	_, err := backend.UpdateItemRequestStatus(ctx, primitive.NewObjectID().Hex(), "approved")
	assert.True(t, domain.IsValidation(err))

	_, err = backend.UpdateItemRequestStatus(ctx, primitive.NewObjectID().Hex(), domain.RequestResolved)
	assert.True(t, domain.IsNotFound(err))
}

func TestBackend_ImportItemRequest_KeepsStatusAndTimestamps(t *testing.T) {
	backend, _, _ := newBackend()
	at := time.Date(2023, 11, 5, 8, 30, 0, 123456789, time.UTC)

	imported, err := backend.ImportItemRequest(context.Background(), helpers.NewTestItemRequest(func(r *domain.ItemRequest) {
		r.Status = domain.RequestResolved
		r.CreatedAt = at
	}))
	require.NoError(t, err)

	assert.Equal(t, domain.RequestResolved, imported.Status)
	assert.True(t, imported.CreatedAt.Equal(at.Truncate(time.Millisecond)))
	assert.True(t, imported.UpdatedAt.Equal(imported.CreatedAt))
}

func TestBackend_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantFn func(error) bool
	}{
		{name: "deadline_is_connection", err: context.DeadlineExceeded, wantFn: domain.IsConnection},
		{name: "other_error_is_wrapped", err: errors.New("bad command"), wantFn: func(err error) bool {
			return err != nil && !domain.IsConnection(err) && !domain.IsNotFound(err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, inventory, _ := newBackend()
			inventory.Err = tt.err

			_, err := backend.ListInventoryItems(context.Background())
			assert.True(t, tt.wantFn(err), "got %v", err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBackend_SeedIfEmpty(t *testing.T) {
	backend, inventory, requests := newBackend()
	ctx := context.Background()

	result, err := backend.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, mongo.SeedResult{Inventory: 5, Requests: 2}, result)
	assert.Equal(t, 5, inventory.Len())
	assert.Equal(t, 2, requests.Len())

	items, err := backend.ListInventoryItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5, "every sample item must be readable")

	result, err = backend.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Zero(t, result)
	assert.Equal(t, 5, inventory.Len())
}

func TestBackend_NameAndPing(t *testing.T) {
	backend, _, _ := newBackend()
	assert.Equal(t, "document", backend.Name())
	assert.NoError(t, backend.Ping(context.Background()))
}
