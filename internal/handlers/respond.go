// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, map[string]string{"error": message})
}

// errorStatus maps the error taxonomy to an HTTP status.
func errorStatus(err error) int {
	var authErr *domain.AuthorizationError
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		if !authErr.Authenticated {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConnection(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and writes the mapped status. Internal errors
// are not echoed to the caller.
func respondServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := errorStatus(err)
	level := slog.LevelWarn
	message := err.Error()
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		if status == http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	}
	logger.Log(r.Context(), level, msg,
		slog.Int("status", status),
		slog.String("error", err.Error()))
	respondError(logger, w, status, message)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		return domain.NewValidationError("body", "invalid request body: "+err.Error())
	}
	return nil
}

// money renders a decimal as a JSON number with two decimals.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}
