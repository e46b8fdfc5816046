// internal/handlers/withdrawals.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// WithdrawalHandler handles stock withdrawal endpoints
type WithdrawalHandler struct {
	service ports.WithdrawalService
	logger  *slog.Logger
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(service ports.WithdrawalService, logger *slog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "withdrawals")),
	}
}

// ListWithdrawals handles GET /api/v1/withdrawals
func (h *WithdrawalHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list withdrawals", err)
		return
	}
	if withdrawals == nil {
		withdrawals = []domain.Withdrawal{}
	}
	respondJSON(h.logger, w, http.StatusOK, withdrawals)
}

// CreateWithdrawal handles POST /api/v1/withdrawals. The response reports
// whether the notice e-mail was queued.
func (h *WithdrawalHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input ports.WithdrawalInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(h.logger, w, r, "invalid withdrawal", err)
		return
	}

	result, err := h.service.Create(ctx, input)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to create withdrawal", err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, result)
}

// ReviewWithdrawal handles PUT /api/v1/withdrawals/{id}/status
func (h *WithdrawalHandler) ReviewWithdrawal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var body statusBody
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid withdrawal review", err)
		return
	}

	reviewed, err := h.service.Review(ctx, id, domain.WithdrawalStatus(body.Status))
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to review withdrawal", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, reviewed)
}
