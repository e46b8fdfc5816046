// internal/handlers/profiles.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// ProfileHandler exposes the caller's profile and role management
type ProfileHandler struct {
	access ports.AccessService
	logger *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(access ports.AccessService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		access: access,
		logger: logger.With(slog.String("handler", "profiles")),
	}
}

// Me handles GET /api/v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.access.Me(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to resolve profile", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, profile)
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.access.ListProfiles(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to list profiles", err)
		return
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	respondJSON(h.logger, w, http.StatusOK, profiles)
}

// SetRole handles PUT /api/v1/profiles/{userId}/role
func (h *ProfileHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondServiceError(h.logger, w, r, "invalid role change", err)
		return
	}

	profile, err := h.access.SetRole(ctx, userID, domain.Role(body.Role))
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to change role", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, profile)
}

// ClaimAdmin handles POST /api/v1/profiles/claim-admin. It succeeds only
// while no administrator exists.
func (h *ProfileHandler) ClaimAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.access.ClaimAdmin(ctx)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to claim admin", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, profile)
}
