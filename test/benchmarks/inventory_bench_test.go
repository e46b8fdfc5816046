package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/adapters/edge"
	redis_a "github.com/escoteiros/scout-inventory/internal/adapters/redis_adapter"
	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/internal/report"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

func BenchmarkInventoryOperations(b *testing.B) {
	backend, ids := newDocumentBackend(b, 200)
	ctx := context.Background()

	b.Run("Create", func(b *testing.B) {
		item := helpers.NewTestInventoryItem()
		item.CalculateTotalValue()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item.Description = fmt.Sprintf("Benchmark Item %d", i)
			_, _ = backend.CreateInventoryItem(ctx, item)
		}
	})

	b.Run("Read", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = backend.GetInventoryItem(ctx, ids[i%len(ids)])
		}
	})

	b.Run("Update", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			qty := i % 50
			_, _ = backend.UpdateInventoryItem(ctx, ids[i%len(ids)], domain.InventoryPatch{Quantity: &qty})
		}
	})
}

func BenchmarkInventoryService_List(b *testing.B) {
	backend, _ := newDocumentBackend(b, 500)
	ctx := context.Background()

	b.Run("Uncached", func(b *testing.B) {
		service := services.NewInventoryService(backend, nil, nil, 0, helpers.TestLogger())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx)
		}
	})

	b.Run("Cached", func(b *testing.B) {
		cache := redis_a.NewCache(newRedis(b), time.Minute, helpers.TestLogger())
		service := services.NewInventoryService(backend, cache, nil, time.Minute, helpers.TestLogger())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx)
		}
	})

	b.Run("Available", func(b *testing.B) {
		service := services.NewInventoryService(backend, nil, nil, 0, helpers.TestLogger())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.ListAvailable(ctx)
		}
	})
}

func BenchmarkWorkbook(b *testing.B) {
	items := workbookItems(500)

	b.Run("Build", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = report.InventoryWorkbookBytes(items)
		}
	})

	data, err := report.InventoryWorkbookBytes(items)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("Parse", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = report.ParseInventoryWorkbook(data)
		}
	})
}

func BenchmarkLabelTranslation(b *testing.B) {
	items := workbookItems(len(domain.Kinds) * len(domain.Branches))

	b.Run("ToStored", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = vocab.InventoryLabels(items[i%len(items)])
		}
	})

	b.Run("WireRoundTrip", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			wire, err := edge.NewInventoryWire(items[i%len(items)])
			if err != nil {
				b.Fatal(err)
			}
			_, _ = wire.ToDomain()
		}
	})
}

// Memory allocation benchmarks
func BenchmarkMemoryAllocation(b *testing.B) {
	b.Run("InventoryItem", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			item := &domain.InventoryItem{
				Level:       domain.LevelNone,
				Kind:        domain.KindBadge,
				Description: "Test Item",
				Quantity:    i % 100,
				UnitValue:   decimal.NewFromFloat(12.5),
				Branch:      domain.BranchAll,
			}
			item.CalculateTotalValue()
		}
	})
}
