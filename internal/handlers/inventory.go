// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// GetInventory handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to get inventory item", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, newItemResponse(*item))
}

// ListInventory handles GET /api/v1/inventory. With ?available=true only
// items in stock are returned, ordered by description.
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	available := false
	if v := r.URL.Query().Get("available"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(h.logger, w, http.StatusBadRequest, "available must be true or false")
			return
		}
		available = parsed
	}

	var (
		items []domain.InventoryItem
		err   error
	)
	if available {
		items, err = h.service.ListAvailable(ctx)
	} else {
		items, err = h.service.List(ctx)
	}
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list inventory items", err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newItemResponse(item))
	}
	respondJSON(h.logger, w, http.StatusOK, out)
}

// CreateInventory handles POST /api/v1/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory item", err)
		return
	}

	created, err := h.service.Create(ctx, req.ToDomain())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to create inventory item", err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, newItemResponse(*created))
}

// UpdateInventory handles PUT and PATCH /api/v1/inventory/{id}. Both apply
// the fields present in the body.
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var patch domain.InventoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory patch", err)
		return
	}

	updated, err := h.service.Update(ctx, id, patch)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to update inventory item", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, newItemResponse(*updated))
}

// DeleteInventory handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.service.Delete(ctx, id); err != nil {
		respondServiceError(h.logger, w, r, "failed to delete inventory item", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

// Summary handles GET /api/v1/inventory/summary
func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to summarize inventory", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, summary)
}

// CreateInventoryRequest represents the request body for creating inventory
type CreateInventoryRequest struct {
	Level       domain.Level    `json:"level"`
	Kind        domain.Kind     `json:"kind"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
	Branch      domain.Branch   `json:"branch"`
}

// ToDomain converts the request to a domain model. Validation and the
// total value are left to the service.
func (r *CreateInventoryRequest) ToDomain() domain.InventoryItem {
	return domain.InventoryItem{
		Level:       r.Level,
		Kind:        r.Kind,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitValue:   r.UnitValue,
		Branch:      r.Branch,
	}
}

type itemResponse struct {
	ID          string        `json:"id"`
	Level       domain.Level  `json:"level"`
	Kind        domain.Kind   `json:"kind"`
	Description string        `json:"description"`
	Quantity    int           `json:"quantity"`
	UnitValue   money         `json:"unitValue"`
	TotalValue  money         `json:"totalValue"`
	Branch      domain.Branch `json:"branch"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func newItemResponse(item domain.InventoryItem) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Level:       item.Level,
		Kind:        item.Kind,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitValue:   money(item.UnitValue),
		TotalValue:  money(item.TotalValue),
		Branch:      item.Branch,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
