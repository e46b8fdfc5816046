// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

// TestJWTSecret signs tokens in handler and middleware tests.
const TestJWTSecret = "test-secret-that-is-long-enough-for-hs256"

// TestLogger discards output unless tests run with -v.
func TestLogger() *slog.Logger {
	if !testing.Verbose() {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// LoadTestConfig returns the defaults with test credentials and notifications off.
func LoadTestConfig() *config.Config {
	cfg := config.FromViper(config.NewViper())
	cfg.App.Environment = "test"
	cfg.App.LogLevel = "debug"
	cfg.App.LogFormat = "text"
	cfg.Database.User = "test"
	cfg.Database.Password = "test"
	cfg.Database.Name = "test_inventory"
	cfg.Auth.JWTSecret = TestJWTSecret
	cfg.Notification.Enabled = false
	return cfg
}

// NewTestInventoryItem returns a valid, unsaved badge line. Overrides run in order.
func NewTestInventoryItem(overrides ...func(*domain.InventoryItem)) domain.InventoryItem {
	item := domain.InventoryItem{
		Level:       domain.LevelNone,
		Kind:        domain.KindBadge,
		Description: "Camp Badge",
		Quantity:    10,
		UnitValue:   decimal.RequireFromString("5.00"),
		Branch:      domain.BranchAll,
	}
	for _, o := range overrides {
		o(&item)
	}
	return item
}

// NewTestInventoryItems returns count items cycling through every kind,
// branch and level, with quantities 0..count-1.
func NewTestInventoryItems(count int) []domain.InventoryItem {
	quarter := decimal.RequireFromString("0.25")
	items := make([]domain.InventoryItem, 0, count)
	for i := range count {
		items = append(items, NewTestInventoryItem(func(it *domain.InventoryItem) {
			it.Description = fmt.Sprintf("Test Item %d", i+1)
			it.Kind = domain.Kinds[i%len(domain.Kinds)]
			it.Branch = domain.Branches[i%len(domain.Branches)]
			it.Level = domain.Levels[i%len(domain.Levels)]
			it.Quantity = i
			it.UnitValue = decimal.NewFromInt(int64(1 + i%7)).Add(quarter)
		}))
	}
	return items
}

// NewTestItemRequest returns a valid, unsaved request from a group member.
func NewTestItemRequest(overrides ...func(*domain.ItemRequest)) domain.ItemRequest {
	req := domain.ItemRequest{
		Name:          "Ana Souza",
		ScoutGroup:    "GE Tupinambás 12",
		Email:         "ana@example.org",
		Phone:         "+55 11 99999-0000",
		ItemRequested: "Camp Badge",
		Quantity:      2,
	}
	for _, o := range overrides {
		o(&req)
	}
	return req
}

// CompareInventoryItems checks the user-visible fields; ids and timestamps
// are left to the caller. Money is compared by value, not representation.
func CompareInventoryItems(t *testing.T, expected, actual *domain.InventoryItem) {
	t.Helper()

	require.Equal(t,
		[]any{expected.Description, expected.Level, expected.Kind, expected.Branch, expected.Quantity},
		[]any{actual.Description, actual.Level, actual.Kind, actual.Branch, actual.Quantity})
	require.Truef(t, expected.UnitValue.Equal(actual.UnitValue), "unit value %s != %s", expected.UnitValue, actual.UnitValue)
	require.Truef(t, expected.TotalValue.Equal(actual.TotalValue), "total value %s != %s", expected.TotalValue, actual.TotalValue)
}
