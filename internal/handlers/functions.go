// internal/handlers/functions.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/escoteiros/scout-inventory/internal/adapters/edge"
	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// FunctionsHandler serves the document store over the functions wire format:
// Portuguese keys, stored labels and ?id= addressing.
type FunctionsHandler struct {
	backend ports.BackendAdapter
	logger  *slog.Logger
}

// NewFunctionsHandler creates the functions server handler
func NewFunctionsHandler(backend ports.BackendAdapter, logger *slog.Logger) *FunctionsHandler {
	return &FunctionsHandler{
		backend: backend,
		logger:  logger.With(slog.String("handler", "functions")),
	}
}

// Routes registers /inventory, /requests and /health on mux.
func (h *FunctionsHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc(edge.InventoryPath, h.Inventory)
	mux.HandleFunc(edge.RequestsPath, h.Requests)
	mux.HandleFunc(edge.HealthPath, h.Health)
}

// Health answers 200 while the document store is reachable.
func (h *FunctionsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		respondServiceError(h.logger, w, r, "document store unreachable", domain.NewConnectionError(h.backend.Name(), "ping", err))
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]string{"status": "healthy", "backend": h.backend.Name()})
}

// Inventory handles /inventory
func (h *FunctionsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	switch r.Method {
	case http.MethodGet:
		if id != "" {
			h.getInventoryItem(w, r, id)
			return
		}
		h.listInventory(w, r)
	case http.MethodPost:
		h.createInventoryItem(w, r)
	case http.MethodPut:
		if id == "" {
			respondError(h.logger, w, http.StatusBadRequest, "id is required")
			return
		}
		h.updateInventoryItem(w, r, id)
	case http.MethodDelete:
		if id == "" {
			respondError(h.logger, w, http.StatusBadRequest, "id is required")
			return
		}
		if err := h.backend.DeleteInventoryItem(r.Context(), id); err != nil {
			respondServiceError(h.logger, w, r, "failed to delete inventory item", err)
			return
		}
		respondJSON(h.logger, w, http.StatusOK, edge.SuccessWire{Success: true})
	default:
		respondError(h.logger, w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *FunctionsHandler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.backend.ListInventoryItems(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list inventory items", err)
		return
	}

	out := make([]edge.InventoryWire, 0, len(items))
	for _, item := range items {
		wire, err := edge.NewInventoryWire(item)
		if err != nil {
			respondServiceError(h.logger, w, r, "failed to encode inventory item", err)
			return
		}
		out = append(out, wire)
	}
	respondJSON(h.logger, w, http.StatusOK, out)
}

func (h *FunctionsHandler) getInventoryItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := h.backend.GetInventoryItem(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to get inventory item", err)
		return
	}
	h.respondInventoryItem(w, r, http.StatusOK, item)
}

func (h *FunctionsHandler) createInventoryItem(w http.ResponseWriter, r *http.Request) {
	var body edge.InventoryWire
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory item", err)
		return
	}
	item, err := body.ToDomain()
	if err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory item", err)
		return
	}
	item.ID = ""

	created, err := h.backend.CreateInventoryItem(r.Context(), item)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to create inventory item", err)
		return
	}
	h.logger.InfoContext(r.Context(), "inventory item created", slog.String("id", created.ID))
	h.respondInventoryItem(w, r, http.StatusCreated, created)
}

func (h *FunctionsHandler) updateInventoryItem(w http.ResponseWriter, r *http.Request, id string) {
	var body edge.InventoryPatchWire
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory patch", err)
		return
	}
	patch, err := body.ToDomain()
	if err != nil {
		respondServiceError(h.logger, w, r, "invalid inventory patch", err)
		return
	}

	updated, err := h.backend.UpdateInventoryItem(r.Context(), id, patch)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to update inventory item", err)
		return
	}
	h.respondInventoryItem(w, r, http.StatusOK, updated)
}

func (h *FunctionsHandler) respondInventoryItem(w http.ResponseWriter, r *http.Request, status int, item *domain.InventoryItem) {
	wire, err := edge.NewInventoryWire(*item)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to encode inventory item", err)
		return
	}
	respondJSON(h.logger, w, status, wire)
}

// Requests handles /requests
func (h *FunctionsHandler) Requests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listRequests(w, r)
	case http.MethodPost:
		h.createRequest(w, r)
	case http.MethodPut:
		id := r.URL.Query().Get("id")
		if id == "" {
			respondError(h.logger, w, http.StatusBadRequest, "id is required")
			return
		}
		h.updateRequestStatus(w, r, id)
	default:
		respondError(h.logger, w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *FunctionsHandler) listRequests(w http.ResponseWriter, r *http.Request) {
	var filter domain.RequestFilter
	if label := r.URL.Query().Get("status"); label != "" {
		status, err := vocab.ParseRequestStatus(label)
		if err != nil {
			respondError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}

	requests, err := h.backend.ListItemRequests(r.Context(), filter)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list item requests", err)
		return
	}

	out := make([]edge.RequestWire, 0, len(requests))
	for _, req := range requests {
		wire, err := edge.NewRequestWire(req)
		if err != nil {
			respondServiceError(h.logger, w, r, "failed to encode item request", err)
			return
		}
		out = append(out, wire)
	}
	respondJSON(h.logger, w, http.StatusOK, out)
}

func (h *FunctionsHandler) createRequest(w http.ResponseWriter, r *http.Request) {
	var body edge.RequestWire
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid item request", err)
		return
	}
	// Status and timestamps are assigned by the store.
	body.ID, body.Status, body.CreatedAt, body.UpdatedAt = "", "", "", ""
	req, err := body.ToDomain()
	if err != nil {
		respondServiceError(h.logger, w, r, "invalid item request", err)
		return
	}

	created, err := h.backend.CreateItemRequest(r.Context(), req)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to create item request", err)
		return
	}
	h.logger.InfoContext(r.Context(), "item request created", slog.String("id", created.ID))
	h.respondRequest(w, r, http.StatusCreated, created)
}

func (h *FunctionsHandler) updateRequestStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body edge.StatusWire
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid status update", err)
		return
	}
	status, err := vocab.ParseRequestStatus(body.Status)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.backend.UpdateItemRequestStatus(r.Context(), id, status)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to update item request status", err)
		return
	}
	h.respondRequest(w, r, http.StatusOK, updated)
}

func (h *FunctionsHandler) respondRequest(w http.ResponseWriter, r *http.Request, status int, req *domain.ItemRequest) {
	wire, err := edge.NewRequestWire(*req)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to encode item request", err)
		return
	}
	respondJSON(h.logger, w, status, wire)
}
