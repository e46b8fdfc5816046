package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// InventoryDocument is an inventory item as stored in the document store.
type InventoryDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Nivel         string             `bson:"nivel"`
	Tipo          string             `bson:"tipo"`
	Descricao     string             `bson:"descricao"`
	Quantidade    int                `bson:"quantidade"`
	ValorUnitario float64            `bson:"valorUnitario"`
	ValorTotal    float64            `bson:"valorTotal"`
	Ramo          string             `bson:"ramo"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// RequestDocument is an item request as stored in the document store.
type RequestDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Nome              string             `bson:"nome"`
	GrupoEscoteiro    string             `bson:"grupoEscoteiro"`
	Email             string             `bson:"email"`
	Telefone          string             `bson:"telefone"`
	ItemSolicitado    string             `bson:"itemSolicitado"`
	Quantidade        int                `bson:"quantidade"`
	MensagemAdicional string             `bson:"mensagemAdicional,omitempty"`
	Status            string             `bson:"status"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// storedTime truncates to the millisecond precision of BSON dates.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func newInventoryDocument(item domain.InventoryItem) (InventoryDocument, error) {
	labels, err := vocab.InventoryLabels(item)
	if err != nil {
		return InventoryDocument{}, err
	}
	return InventoryDocument{
		Nivel:         labels.Level,
		Tipo:          labels.Kind,
		Descricao:     item.Description,
		Quantidade:    item.Quantity,
		ValorUnitario: item.UnitValue.InexactFloat64(),
		ValorTotal:    item.TotalValue.InexactFloat64(),
		Ramo:          labels.Branch,
		CreatedAt:     storedTime(item.CreatedAt),
		UpdatedAt:     storedTime(item.UpdatedAt),
	}, nil
}

// ToDomain translates the document into the canonical shape.
func (d InventoryDocument) ToDomain() (domain.InventoryItem, error) {
	item := domain.InventoryItem{
		ID:          d.ID.Hex(),
		Description: d.Descricao,
		Quantity:    d.Quantidade,
		UnitValue:   money(d.ValorUnitario),
		TotalValue:  money(d.ValorTotal),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	labels := vocab.ItemLabels{Level: d.Nivel, Kind: d.Tipo, Branch: d.Ramo}
	if err := vocab.ParseInventoryLabels(labels, &item); err != nil {
		return item, fmt.Errorf("inventory item %s: %w", item.ID, err)
	}
	if err := item.Validate(); err != nil {
		return item, fmt.Errorf("inventory item %s: %w", item.ID, err)
	}
	return item, nil
}

func newRequestDocument(req domain.ItemRequest) (RequestDocument, error) {
	status, err := vocab.RequestStatus(req.Status)
	if err != nil {
		return RequestDocument{}, err
	}
	return RequestDocument{
		Nome:              req.Name,
		GrupoEscoteiro:    req.ScoutGroup,
		Email:             req.Email,
		Telefone:          req.Phone,
		ItemSolicitado:    req.ItemRequested,
		Quantidade:        req.Quantity,
		MensagemAdicional: req.AdditionalMessage,
		Status:            status,
		CreatedAt:         storedTime(req.CreatedAt),
		UpdatedAt:         storedTime(req.UpdatedAt),
	}, nil
}

// ToDomain translates the document into the canonical shape.
func (d RequestDocument) ToDomain() (domain.ItemRequest, error) {
	req := domain.ItemRequest{
		ID:                d.ID.Hex(),
		Name:              d.Nome,
		ScoutGroup:        d.GrupoEscoteiro,
		Email:             d.Email,
		Phone:             d.Telefone,
		ItemRequested:     d.ItemSolicitado,
		Quantity:          d.Quantidade,
		AdditionalMessage: d.MensagemAdicional,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
	status, err := vocab.ParseRequestStatus(d.Status)
	if err != nil {
		return req, fmt.Errorf("item request %s: %w", req.ID, err)
	}
	req.Status = status
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("item request %s: %w", req.ID, err)
	}
	return req, nil
}
