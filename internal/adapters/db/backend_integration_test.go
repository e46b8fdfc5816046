//go:build integration
// +build integration

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

type BackendSuite struct {
	suite.Suite
	testDB      *helpers.TestDB
	backend     *db.Backend
	profiles    ports.ProfileRepository
	withdrawals ports.WithdrawalRepository
	ctx         context.Context
}

func (s *BackendSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.backend = db.NewBackend(s.testDB.Database, helpers.TestLogger())
	s.profiles = db.NewProfileRepository(s.testDB.Database, helpers.TestLogger())
	s.withdrawals = db.NewWithdrawalRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *BackendSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *BackendSuite) TestInventoryLifecycle() {
	created, err := s.backend.CreateInventoryItem(s.ctx, helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
		i.Kind = domain.KindSpecialtyBadge
		i.Branch = domain.BranchSenior
		i.Level = domain.Level2
	}))
	s.Require().NoError(err)
	s.Equal("50", created.TotalValue.String())

	got, err := s.backend.GetInventoryItem(s.ctx, created.ID)
	s.Require().NoError(err)
	helpers.CompareInventoryItems(s.T(), created, got)

	var stored string
	err = s.testDB.PgxPool.QueryRow(s.ctx, "SELECT tipo FROM inventory_items WHERE id = $1", created.ID).Scan(&stored)
	s.Require().NoError(err)
	s.Equal("Distintivo Especialidade", stored)

	qty := 4
	updated, err := s.backend.UpdateInventoryItem(s.ctx, created.ID, domain.InventoryPatch{Quantity: &qty})
	s.Require().NoError(err)
	s.Equal(4, updated.Quantity)
	s.Equal("20", updated.TotalValue.String())
	s.Equal(created.Description, updated.Description)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	unit := decimal.RequireFromString("2.333")
	updated, err = s.backend.UpdateInventoryItem(s.ctx, created.ID, domain.InventoryPatch{UnitValue: &unit})
	s.Require().NoError(err)
	s.Equal("2.33", updated.UnitValue.StringFixed(2))
	s.Equal("9.32", updated.TotalValue.StringFixed(2))

	s.Require().NoError(s.backend.DeleteInventoryItem(s.ctx, created.ID))
	_, err = s.backend.GetInventoryItem(s.ctx, created.ID)
	s.True(domain.IsNotFound(err))
	s.True(domain.IsNotFound(s.backend.DeleteInventoryItem(s.ctx, created.ID)))
}

func (s *BackendSuite) TestListNewestFirst() {
	for _, item := range helpers.NewTestInventoryItems(5) {
		_, err := s.backend.CreateInventoryItem(s.ctx, item)
		s.Require().NoError(err)
	}

	items, err := s.backend.ListInventoryItems(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 5)
	s.Equal("Test Item 5", items[0].Description)
	for i := 1; i < len(items); i++ {
		s.False(items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func (s *BackendSuite) TestTotalConstraint() {
	_, err := s.testDB.PgxPool.Exec(s.ctx, `INSERT INTO inventory_items
		(id, nivel, tipo, descricao, quantidade, valor_unitario, valor_total, ramo)
		VALUES (gen_random_uuid(), 'Não Tem', 'Distintivo', 'Broken', 2, 1.00, 5.00, 'Todos')`)
	s.Error(err)
	s.Contains(err.Error(), "inventory_items_total_matches")
}

func (s *BackendSuite) TestItemRequests() {
	first, err := s.backend.CreateItemRequest(s.ctx, helpers.NewTestItemRequest())
	s.Require().NoError(err)
	s.Equal(domain.RequestPending, first.Status)

	second, err := s.backend.CreateItemRequest(s.ctx, helpers.NewTestItemRequest(func(r *domain.ItemRequest) {
		r.ItemRequested = "Scarf"
		r.AdditionalMessage = "for the new patrol"
	}))
	s.Require().NoError(err)

	resolved, err := s.backend.UpdateItemRequestStatus(s.ctx, first.ID, domain.RequestResolved)
	s.Require().NoError(err)
	s.Equal(domain.RequestResolved, resolved.Status)

	pending, err := s.backend.ListItemRequests(s.ctx, domain.RequestFilter{Status: domain.RequestPending})
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ID, pending[0].ID)
	s.Equal("for the new patrol", pending[0].AdditionalMessage)

	all, err := s.backend.ListItemRequests(s.ctx, domain.RequestFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *BackendSuite) TestWithdrawalReviewHappensOnce() {
	item, err := s.backend.CreateInventoryItem(s.ctx, helpers.NewTestInventoryItem())
	s.Require().NoError(err)

	w, err := s.withdrawals.Create(s.ctx, domain.Withdrawal{
		ItemID: item.ID, ItemDescription: item.Description, UserID: "user-1", Quantity: 2,
	})
	s.Require().NoError(err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.withdrawals.Transition(s.ctx, w.ID, domain.WithdrawalRequested, domain.WithdrawalApproved)
			if err == nil {
				mu.Lock()
				approved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, approved)

	list, err := s.withdrawals.List(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(domain.WithdrawalApproved, list[0].Status)
}

func (s *BackendSuite) TestProfiles() {
	p, err := s.profiles.Upsert(s.ctx, domain.Profile{UserID: "user-1", Email: "ana@example.org"})
	s.Require().NoError(err)
	s.Equal(domain.RoleOperator, p.Role)

	_, err = s.profiles.UpdateRole(s.ctx, "user-1", domain.RoleAdmin)
	s.Require().NoError(err)

	p, err = s.profiles.Upsert(s.ctx, domain.Profile{UserID: "user-1", FullName: "Ana"})
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, p.Role)
	s.Equal("ana@example.org", p.Email)

	count, err := s.profiles.CountByRole(s.ctx, domain.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func TestBackendSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(BackendSuite))
}
