// Package edge holds the JSON wire format of the functions server and the
// client adapter that talks to it.
package edge

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// InventoryWire is an inventory item as exchanged with the functions server.
// Enum fields carry stored labels.
type InventoryWire struct {
	ID            string  `json:"id,omitempty"`
	Nivel         string  `json:"nivel"`
	Tipo          string  `json:"tipo"`
	Descricao     string  `json:"descricao"`
	Quantidade    int     `json:"quantidade"`
	ValorUnitario float64 `json:"valorUnitario"`
	ValorTotal    float64 `json:"valorTotal"`
	Ramo          string  `json:"ramo"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// InventoryPatchWire is the body of an inventory PUT. Absent keys are left untouched.
type InventoryPatchWire struct {
	Nivel         *string  `json:"nivel,omitempty"`
	Tipo          *string  `json:"tipo,omitempty"`
	Descricao     *string  `json:"descricao,omitempty"`
	Quantidade    *int     `json:"quantidade,omitempty"`
	ValorUnitario *float64 `json:"valorUnitario,omitempty"`
	Ramo          *string  `json:"ramo,omitempty"`
}

// RequestWire is an item request as exchanged with the functions server.
type RequestWire struct {
	ID                string `json:"id,omitempty"`
	Nome              string `json:"nome"`
	GrupoEscoteiro    string `json:"grupoEscoteiro"`
	Email             string `json:"email"`
	Telefone          string `json:"telefone"`
	ItemSolicitado    string `json:"itemSolicitado"`
	Quantidade        int    `json:"quantidade"`
	MensagemAdicional string `json:"mensagemAdicional,omitempty"`
	Status            string `json:"status,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// StatusWire is the body of a request PUT.
type StatusWire struct {
	Status string `json:"status"`
}

// ErrorWire is the body of every failed response.
type ErrorWire struct {
	Error string `json:"error"`
}

// SuccessWire is the body of a successful DELETE.
type SuccessWire struct {
	Success bool `json:"success"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t.UTC(), nil
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// NewInventoryWire translates item to its wire shape.
func NewInventoryWire(item domain.InventoryItem) (InventoryWire, error) {
	labels, err := vocab.InventoryLabels(item)
	if err != nil {
		return InventoryWire{}, err
	}
	return InventoryWire{
		ID:            item.ID,
		Nivel:         labels.Level,
		Tipo:          labels.Kind,
		Descricao:     item.Description,
		Quantidade:    item.Quantity,
		ValorUnitario: item.UnitValue.InexactFloat64(),
		ValorTotal:    item.TotalValue.InexactFloat64(),
		Ramo:          labels.Branch,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}, nil
}

// ToDomain translates the wire shape into the canonical item. Unknown labels
// are validation failures.
func (w InventoryWire) ToDomain() (domain.InventoryItem, error) {
	item := domain.InventoryItem{
		ID:          w.ID,
		Description: w.Descricao,
		Quantity:    w.Quantidade,
		UnitValue:   money(w.ValorUnitario),
		TotalValue:  money(w.ValorTotal),
	}
	labels := vocab.ItemLabels{Level: w.Nivel, Kind: w.Tipo, Branch: w.Ramo}
	if err := vocab.ParseInventoryLabels(labels, &item); err != nil {
		return item, domain.NewValidationError("", err.Error())
	}
	var err error
	if item.CreatedAt, err = parseTime("createdAt", w.CreatedAt); err != nil {
		return item, domain.NewValidationError("createdAt", err.Error())
	}
	if item.UpdatedAt, err = parseTime("updatedAt", w.UpdatedAt); err != nil {
		return item, domain.NewValidationError("updatedAt", err.Error())
	}
	return item, nil
}

// NewInventoryPatchWire translates patch to its wire shape.
func NewInventoryPatchWire(patch domain.InventoryPatch) (InventoryPatchWire, error) {
	out := InventoryPatchWire{Descricao: patch.Description, Quantidade: patch.Quantity}
	if patch.Level != nil {
		label, err := vocab.Level(*patch.Level)
		if err != nil {
			return out, err
		}
		out.Nivel = &label
	}
	if patch.Kind != nil {
		label, err := vocab.Kind(*patch.Kind)
		if err != nil {
			return out, err
		}
		out.Tipo = &label
	}
	if patch.Branch != nil {
		label, err := vocab.Branch(*patch.Branch)
		if err != nil {
			return out, err
		}
		out.Ramo = &label
	}
	if patch.UnitValue != nil {
		f := patch.UnitValue.InexactFloat64()
		out.ValorUnitario = &f
	}
	return out, nil
}

// ToDomain translates the wire patch into the canonical patch.
func (w InventoryPatchWire) ToDomain() (domain.InventoryPatch, error) {
	patch := domain.InventoryPatch{Description: w.Descricao, Quantity: w.Quantidade}
	if w.Nivel != nil {
		level, err := vocab.ParseLevel(*w.Nivel)
		if err != nil {
			return patch, domain.NewValidationError("nivel", err.Error())
		}
		patch.Level = &level
	}
	if w.Tipo != nil {
		kind, err := vocab.ParseKind(*w.Tipo)
		if err != nil {
			return patch, domain.NewValidationError("tipo", err.Error())
		}
		patch.Kind = &kind
	}
	if w.Ramo != nil {
		branch, err := vocab.ParseBranch(*w.Ramo)
		if err != nil {
			return patch, domain.NewValidationError("ramo", err.Error())
		}
		patch.Branch = &branch
	}
	if w.ValorUnitario != nil {
		unit := money(*w.ValorUnitario)
		patch.UnitValue = &unit
	}
	return patch, nil
}

// NewRequestWire translates req to its wire shape.
func NewRequestWire(req domain.ItemRequest) (RequestWire, error) {
	out := RequestWire{
		ID:                req.ID,
		Nome:              req.Name,
		GrupoEscoteiro:    req.ScoutGroup,
		Email:             req.Email,
		Telefone:          req.Phone,
		ItemSolicitado:    req.ItemRequested,
		Quantidade:        req.Quantity,
		MensagemAdicional: req.AdditionalMessage,
		CreatedAt:         formatTime(req.CreatedAt),
		UpdatedAt:         formatTime(req.UpdatedAt),
	}
	if req.Status != "" {
		status, err := vocab.RequestStatus(req.Status)
		if err != nil {
			return out, err
		}
		out.Status = status
	}
	return out, nil
}

// ToDomain translates the wire shape into the canonical request. An absent
// status stays empty.
func (w RequestWire) ToDomain() (domain.ItemRequest, error) {
	req := domain.ItemRequest{
		ID:                w.ID,
		Name:              w.Nome,
		ScoutGroup:        w.GrupoEscoteiro,
		Email:             w.Email,
		Phone:             w.Telefone,
		ItemRequested:     w.ItemSolicitado,
		Quantity:          w.Quantidade,
		AdditionalMessage: w.MensagemAdicional,
	}
	if w.Status != "" {
		status, err := vocab.ParseRequestStatus(w.Status)
		if err != nil {
			return req, domain.NewValidationError("status", err.Error())
		}
		req.Status = status
	}
	var err error
	if req.CreatedAt, err = parseTime("createdAt", w.CreatedAt); err != nil {
		return req, domain.NewValidationError("createdAt", err.Error())
	}
	if req.UpdatedAt, err = parseTime("updatedAt", w.UpdatedAt); err != nil {
		return req, domain.NewValidationError("updatedAt", err.Error())
	}
	return req, nil
}
