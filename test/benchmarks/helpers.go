// test/benchmarks/helpers.go
package benchmarks

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

// newDocumentBackend returns a document backend over in-memory collections
// holding count items.
func newDocumentBackend(b *testing.B, count int) (*mongo.Backend, []string) {
	b.Helper()
	backend := mongo.NewBackendWithCollections(helpers.NewFakeCollection(), helpers.NewFakeCollection(), helpers.TestLogger())

	ids := make([]string, 0, count)
	for _, item := range helpers.NewTestInventoryItems(count) {
		item.CalculateTotalValue()
		created, err := backend.CreateInventoryItem(b.Context(), item)
		if err != nil {
			b.Fatalf("seed item: %v", err)
		}
		ids = append(ids, created.ID)
	}
	return backend, ids
}

// newRedis starts an in-memory Redis for the benchmark
func newRedis(b *testing.B) *redis.Client {
	b.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

// workbookItems returns count stored-looking items for report benchmarks
func workbookItems(count int) []domain.InventoryItem {
	items := helpers.NewTestInventoryItems(count)
	for i := range items {
		items[i].CalculateTotalValue()
	}
	return items
}
