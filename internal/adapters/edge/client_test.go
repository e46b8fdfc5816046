package edge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/escoteiros/scout-inventory/internal/adapters/edge"
	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/handlers"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

// newRoundTrip starts a functions server over in-memory collections and
// returns a client pointed at it.
func newRoundTrip(t *testing.T) (*edge.Client, *helpers.FakeCollection) {
	t.Helper()
	inventory, requests := helpers.NewFakeCollection(), helpers.NewFakeCollection()
	backend := mongo.NewBackendWithCollections(inventory, requests, helpers.TestLogger())

	mux := http.NewServeMux()
	handlers.NewFunctionsHandler(backend, helpers.TestLogger()).Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return edge.NewClient(edge.Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, helpers.TestLogger()), inventory
}

func TestClient_InventoryRoundTrip(t *testing.T) {
	client, _ := newRoundTrip(t)
	ctx := context.Background()

	input := helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
		i.Description = "Camp Badge"
		i.Quantity = 10
		i.UnitValue = decimal.RequireFromString("5.00")
		i.Kind = domain.KindBadge
		i.Branch = domain.BranchAll
		i.Level = domain.LevelNone
	})

	created, err := client.CreateInventoryItem(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "50.00", created.TotalValue.StringFixed(2))
	assert.Equal(t, domain.KindBadge, created.Kind)
	assert.Equal(t, domain.BranchAll, created.Branch)
	assert.Equal(t, domain.LevelNone, created.Level)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := client.GetInventoryItem(ctx, created.ID)
	require.NoError(t, err)
	helpers.CompareInventoryItems(t, created, got)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	qty := 4
	updated, err := client.UpdateInventoryItem(ctx, created.ID, domain.InventoryPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "20.00", updated.TotalValue.StringFixed(2))

	items, err := client.ListInventoryItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	require.NoError(t, client.DeleteInventoryItem(ctx, created.ID))
	err = client.DeleteInventoryItem(ctx, created.ID)
	require.True(t, domain.IsNotFound(err), "got %v", err)
	assert.Equal(t, "inventory item not found: "+created.ID, err.Error())
}

func TestClient_InventoryErrors(t *testing.T) {
	client, _ := newRoundTrip(t)
	ctx := context.Background()

	t.Run("invalid_branch_never_reaches_server", func(t *testing.T) {
		_, err := client.CreateInventoryItem(ctx, helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
			i.Branch = "Unknown"
		}))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown_id_is_not_found", func(t *testing.T) {
		qty := 1
		_, err := client.UpdateInventoryItem(ctx, primitive.NewObjectID().Hex(), domain.InventoryPatch{Quantity: &qty})
		assert.True(t, domain.IsNotFound(err))

		_, err = client.GetInventoryItem(ctx, "bogus")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestClient_ItemRequestRoundTrip(t *testing.T) {
	client, _ := newRoundTrip(t)
	ctx := context.Background()

	created, err := client.CreateItemRequest(ctx, helpers.NewTestItemRequest(func(r *domain.ItemRequest) {
		r.Status = domain.RequestResolved
		r.AdditionalMessage = "for the investiture"
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, created.Status)
	assert.Equal(t, "for the investiture", created.AdditionalMessage)
	assert.Equal(t, "GE Tupinambás 12", created.ScoutGroup)

	resolved, err := client.UpdateItemRequestStatus(ctx, created.ID, domain.RequestResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestResolved, resolved.Status)
	assert.True(t, created.CreatedAt.Equal(resolved.CreatedAt))

	pending, err := client.ListItemRequests(ctx, domain.RequestFilter{Status: domain.RequestPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := client.ListItemRequests(ctx, domain.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.Email, all[0].Email)

	_, err = client.UpdateItemRequestStatus(ctx, primitive.NewObjectID().Hex(), domain.RequestPending)
	assert.True(t, domain.IsNotFound(err))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		wantFn func(error) bool
	}{
		{name: "bad_request_is_validation", status: http.StatusBadRequest, wantFn: domain.IsValidation},
		{name: "not_found", status: http.StatusNotFound, wantFn: domain.IsNotFound},
		{name: "bad_gateway_is_connection", status: http.StatusBadGateway, wantFn: domain.IsConnection},
		{name: "unavailable_is_connection", status: http.StatusServiceUnavailable, wantFn: domain.IsConnection},
		{name: "gateway_timeout_is_connection", status: http.StatusGatewayTimeout, wantFn: domain.IsConnection},
		{name: "internal_error_is_plain", status: http.StatusInternalServerError, wantFn: func(err error) bool {
			return err != nil && !domain.IsConnection(err) && !domain.IsValidation(err) && !domain.IsNotFound(err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(edge.ErrorWire{Error: "boom"})
			}))
			defer srv.Close()

			client := edge.NewClient(edge.Config{BaseURL: srv.URL}, helpers.TestLogger())
			_, err := client.ListInventoryItems(context.Background())
			assert.True(t, tt.wantFn(err), "got %v", err)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestClient_TransportErrorIsConnection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := edge.NewClient(edge.Config{BaseURL: url}, helpers.TestLogger())
	assert.True(t, domain.IsConnection(client.Ping(context.Background())))
	_, err := client.ListItemRequests(context.Background(), domain.RequestFilter{})
	assert.True(t, domain.IsConnection(err))
}

func TestClient_SendsAPIKey(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey, gotAuth = r.Header.Get("apikey"), r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := edge.NewClient(edge.Config{BaseURL: srv.URL, APIKey: "anon-key"}, helpers.TestLogger())
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, "edge", client.Name())
}
