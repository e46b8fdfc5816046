package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

var inventoryColumns = []string{
	"id::text", "nivel", "tipo", "descricao", "quantidade",
	"valor_unitario", "valor_total", "ramo", "created_at", "updated_at",
}

var requestColumns = []string{
	"id::text", "nome", "grupo_escoteiro", "email", "telefone", "item_solicitado",
	"quantidade", "mensagem_adicional", "status", "created_at", "updated_at",
}

// InventoryRecord is an inventory_items row as stored.
type InventoryRecord struct {
	ID            string
	Nivel         string
	Tipo          string
	Descricao     string
	Quantidade    int
	ValorUnitario decimal.Decimal
	ValorTotal    decimal.Decimal
	Ramo          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ToDomain translates the row into the canonical shape.
func (r InventoryRecord) ToDomain() (domain.InventoryItem, error) {
	item := domain.InventoryItem{
		ID:          r.ID,
		Description: r.Descricao,
		Quantity:    r.Quantidade,
		UnitValue:   r.ValorUnitario,
		TotalValue:  r.ValorTotal,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	labels := vocab.ItemLabels{Level: r.Nivel, Kind: r.Tipo, Branch: r.Ramo}
	if err := vocab.ParseInventoryLabels(labels, &item); err != nil {
		return item, fmt.Errorf("inventory item %s: %w", r.ID, err)
	}
	if err := item.Validate(); err != nil {
		return item, fmt.Errorf("inventory item %s: %w", r.ID, err)
	}
	return item, nil
}

func scanInventoryRecord(row pgx.Row) (InventoryRecord, error) {
	var r InventoryRecord
	err := row.Scan(
		&r.ID, &r.Nivel, &r.Tipo, &r.Descricao, &r.Quantidade,
		&r.ValorUnitario, &r.ValorTotal, &r.Ramo, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// RequestRecord is an item_requests row as stored.
type RequestRecord struct {
	ID                string
	Nome              string
	GrupoEscoteiro    string
	Email             string
	Telefone          string
	ItemSolicitado    string
	Quantidade        int
	MensagemAdicional *string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ToDomain translates the row into the canonical shape.
func (r RequestRecord) ToDomain() (domain.ItemRequest, error) {
	req := domain.ItemRequest{
		ID:            r.ID,
		Name:          r.Nome,
		ScoutGroup:    r.GrupoEscoteiro,
		Email:         r.Email,
		Phone:         r.Telefone,
		ItemRequested: r.ItemSolicitado,
		Quantity:      r.Quantidade,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
	if r.MensagemAdicional != nil {
		req.AdditionalMessage = *r.MensagemAdicional
	}
	status, err := vocab.ParseRequestStatus(r.Status)
	if err != nil {
		return req, fmt.Errorf("item request %s: %w", r.ID, err)
	}
	req.Status = status
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("item request %s: %w", r.ID, err)
	}
	return req, nil
}

func scanRequestRecord(row pgx.Row) (RequestRecord, error) {
	var r RequestRecord
	err := row.Scan(
		&r.ID, &r.Nome, &r.GrupoEscoteiro, &r.Email, &r.Telefone, &r.ItemSolicitado,
		&r.Quantidade, &r.MensagemAdicional, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
