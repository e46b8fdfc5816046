// internal/handlers/import.go
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/report"
)

// ImportHandler handles workbook imports
type ImportHandler struct {
	inventory   ports.InventoryService
	access      ports.AccessService
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(inventory ports.InventoryService, access ports.AccessService, logger *slog.Logger, maxFileSize int64) *ImportHandler {
	return &ImportHandler{
		inventory:   inventory,
		access:      access,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
	}
}

// ImportResult reports the outcome of a workbook import
type ImportResult struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Failed  []ImportError `json:"failed"`
}

// ImportError describes a row that was not imported
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportInventory handles POST /api/v1/import/inventory. The upload is a
// multipart "file" field holding a workbook in the export layout. Each row
// is created on its own; bad rows are reported and do not stop the import.
func (h *ImportHandler) ImportInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.access.Authorize(ctx, domain.ActionEditInventory); err != nil {
		respondServiceError(h.logger, w, r, "import refused", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(h.logger, w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondError(h.logger, w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		respondError(h.logger, w, http.StatusBadRequest, "only .xlsx files are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "failed to read upload")
		return
	}

	rows, err := report.ParseInventoryWorkbook(data)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to read workbook", err)
		return
	}

	result := ImportResult{Total: len(rows), Failed: []ImportError{}}
	for _, row := range rows {
		if row.Err != nil {
			result.Failed = append(result.Failed, ImportError{Row: row.Row, Error: row.Err.Error()})
			continue
		}
		if _, err := h.inventory.Create(ctx, row.Item); err != nil {
			result.Failed = append(result.Failed, ImportError{Row: row.Row, Error: err.Error()})
			continue
		}
		result.Created++
	}

	h.logger.InfoContext(ctx, "inventory import completed",
		slog.String("filename", header.Filename),
		slog.Int("rows", result.Total),
		slog.Int("created", result.Created),
		slog.Int("failed", len(result.Failed)))

	respondJSON(h.logger, w, http.StatusOK, result)
}
