// internal/handlers/requests.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// RequestHandler handles item request endpoints
type RequestHandler struct {
	service ports.RequestService
	logger  *slog.Logger
}

// NewRequestHandler creates a new item request handler
func NewRequestHandler(service ports.RequestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "requests")),
	}
}

// ListRequests handles GET /api/v1/requests[?status=]
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := domain.RequestFilter{Status: domain.RequestStatus(r.URL.Query().Get("status"))}

	requests, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list item requests", err)
		return
	}
	if requests == nil {
		requests = []domain.ItemRequest{}
	}
	respondJSON(h.logger, w, http.StatusOK, requests)
}

// CreateRequest handles POST /api/v1/requests. Anyone may submit a request.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body CreateItemRequest
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid item request", err)
		return
	}

	created, err := h.service.Create(ctx, body.ToDomain())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to create item request", err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, created)
}

// UpdateRequestStatus handles PUT /api/v1/requests/{id}/status
func (h *RequestHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var body statusBody
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid status update", err)
		return
	}

	updated, err := h.service.UpdateStatus(ctx, id, domain.RequestStatus(body.Status))
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to update item request", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, updated)
}

// CreateItemRequest is the public request form
type CreateItemRequest struct {
	Name              string `json:"name"`
	ScoutGroup        string `json:"scoutGroup"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	ItemRequested     string `json:"itemRequested"`
	Quantity          int    `json:"quantity"`
	AdditionalMessage string `json:"additionalMessage,omitempty"`
}

// ToDomain converts the form to a domain request. The status is always
// set by the service.
func (c *CreateItemRequest) ToDomain() domain.ItemRequest {
	return domain.ItemRequest{
		Name:              c.Name,
		ScoutGroup:        c.ScoutGroup,
		Email:             c.Email,
		Phone:             c.Phone,
		ItemRequested:     c.ItemRequested,
		Quantity:          c.Quantity,
		AdditionalMessage: c.AdditionalMessage,
	}
}

type statusBody struct {
	Status string `json:"status"`
}
