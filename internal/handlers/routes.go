// internal/handlers/routes.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// API groups the handlers served by cmd/api. A nil handler leaves its
// routes unregistered.
type API struct {
	Health      *HealthHandler
	Inventory   *InventoryHandler
	Requests    *RequestHandler
	Withdrawals *WithdrawalHandler
	Profiles    *ProfileHandler
	Export      *ExportHandler
	Import      *ImportHandler
}

// Routes registers the API on mux using method-specific patterns.
func (a *API) Routes(mux *http.ServeMux) {
	if a.Health != nil {
		mux.HandleFunc("GET /health", a.Health.Health)
		mux.HandleFunc("GET /ready", a.Health.Readiness)
	}

	if h := a.Inventory; h != nil {
		mux.HandleFunc("GET "+apiV1+"/inventory", h.ListInventory)
		mux.HandleFunc("GET "+apiV1+"/inventory/summary", h.Summary)
		mux.HandleFunc("GET "+apiV1+"/inventory/{id}", h.GetInventory)
		mux.HandleFunc("POST "+apiV1+"/inventory", h.CreateInventory)
		mux.HandleFunc("PUT "+apiV1+"/inventory/{id}", h.UpdateInventory)
		mux.HandleFunc("PATCH "+apiV1+"/inventory/{id}", h.UpdateInventory)
		mux.HandleFunc("DELETE "+apiV1+"/inventory/{id}", h.DeleteInventory)
	}

	if h := a.Requests; h != nil {
		mux.HandleFunc("GET "+apiV1+"/requests", h.ListRequests)
		mux.HandleFunc("POST "+apiV1+"/requests", h.CreateRequest)
		mux.HandleFunc("PUT "+apiV1+"/requests/{id}/status", h.UpdateRequestStatus)
	}

	if h := a.Withdrawals; h != nil {
		mux.HandleFunc("GET "+apiV1+"/withdrawals", h.ListWithdrawals)
		mux.HandleFunc("POST "+apiV1+"/withdrawals", h.CreateWithdrawal)
		mux.HandleFunc("PUT "+apiV1+"/withdrawals/{id}/status", h.ReviewWithdrawal)
	}

	if h := a.Profiles; h != nil {
		mux.HandleFunc("GET "+apiV1+"/me", h.Me)
		mux.HandleFunc("GET "+apiV1+"/profiles", h.ListProfiles)
		mux.HandleFunc("PUT "+apiV1+"/profiles/{userId}/role", h.SetRole)
		mux.HandleFunc("POST "+apiV1+"/profiles/claim-admin", h.ClaimAdmin)
	}

	if h := a.Export; h != nil {
		mux.HandleFunc("GET "+apiV1+"/export/inventory", h.ExportInventory)
		mux.HandleFunc("POST "+apiV1+"/export/inventory", h.QueueInventoryReport)
	}

	if h := a.Import; h != nil {
		mux.HandleFunc("POST "+apiV1+"/import/inventory", h.ImportInventory)
	}
}
