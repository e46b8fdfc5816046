// internal/handlers/export.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/report"
)

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Inventory []itemResponse `json:"inventory"`
	Metadata  ExportMetadata `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalItems int       `json:"total_items"`
	TotalUnits int       `json:"total_units"`
	TotalValue money     `json:"total_value"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	inventory ports.InventoryService
	access    ports.AccessService
	scheduler ports.ReportScheduler
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportHandler creates a new export handler. scheduler may be nil, in
// which case queued reports are refused.
func NewExportHandler(inventory ports.InventoryService, access ports.AccessService, scheduler ports.ReportScheduler, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		inventory: inventory,
		access:    access,
		scheduler: scheduler,
		logger:    logger.With(slog.String("handler", "export")),
		now:       time.Now,
	}
}

// ExportInventory handles GET /api/v1/export/inventory. The workbook is
// streamed back; ?format=json returns the same rows as JSON.
func (h *ExportHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.access.Authorize(ctx, domain.ActionExportInventory); err != nil {
		respondServiceError(h.logger, w, r, "export refused", err)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "xlsx" && format != "json" {
		respondError(h.logger, w, http.StatusBadRequest, "format must be xlsx or json")
		return
	}

	items, err := h.inventory.List(ctx)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to retrieve inventory data", err)
		return
	}

	if format == "json" {
		h.writeJSON(w, items)
		return
	}

	data, err := report.InventoryWorkbookBytes(items)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to generate workbook", err)
		return
	}

	filename := report.FileName(h.now())
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write workbook response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "inventory export completed",
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

func (h *ExportHandler) writeJSON(w http.ResponseWriter, items []domain.InventoryItem) {
	resp := JSONExportResponse{
		Inventory: make([]itemResponse, 0, len(items)),
		Metadata:  ExportMetadata{ExportDate: h.now(), TotalItems: len(items)},
	}
	var total decimal.Decimal
	for _, item := range items {
		resp.Inventory = append(resp.Inventory, newItemResponse(item))
		resp.Metadata.TotalUnits += item.Quantity
		total = total.Add(item.TotalValue)
	}
	resp.Metadata.TotalValue = money(total)
	respondJSON(h.logger, w, http.StatusOK, resp)
}

// QueueInventoryReport handles POST /api/v1/export/inventory. The workbook
// is built by the worker and stored for later download.
func (h *ExportHandler) QueueInventoryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.access.Authorize(ctx, domain.ActionExportInventory); err != nil {
		respondServiceError(h.logger, w, r, "export refused", err)
		return
	}
	if h.scheduler == nil {
		respondError(h.logger, w, http.StatusServiceUnavailable, "report queue is not configured")
		return
	}

	id, _ := domain.IdentityFromContext(ctx)
	reportID, err := h.scheduler.EnqueueInventoryReport(ctx, id.UserID)
	if err != nil {
		respondServiceError(h.logger, w, r, "failed to queue inventory report", err)
		return
	}

	h.logger.InfoContext(ctx, "inventory report queued", slog.String("report_id", reportID))
	respondJSON(h.logger, w, http.StatusAccepted, map[string]string{
		"report_id": reportID,
		"status":    "queued",
	})
}
