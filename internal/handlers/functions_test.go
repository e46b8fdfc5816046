package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/handlers"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

type functionsFixture struct {
	mux       *http.ServeMux
	inventory *helpers.FakeCollection
	requests  *helpers.FakeCollection
}

func newFunctionsFixture() *functionsFixture {
	inventory, requests := helpers.NewFakeCollection(), helpers.NewFakeCollection()
	backend := mongo.NewBackendWithCollections(inventory, requests, helpers.TestLogger())
	mux := http.NewServeMux()
	handlers.NewFunctionsHandler(backend, helpers.TestLogger()).Routes(mux)
	return &functionsFixture{mux: mux, inventory: inventory, requests: requests}
}

func (f *functionsFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

const campBadge = `{"nivel":"Não Tem","tipo":"Distintivo","descricao":"Camp Badge","quantidade":10,"valorUnitario":5,"valorTotal":1,"ramo":"Todos"}`

func TestFunctions_CreateInventoryItem(t *testing.T) {
	f := newFunctionsFixture()

	rec := f.do(http.MethodPost, "/inventory", campBadge)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Distintivo", body["tipo"])
	assert.Equal(t, "Todos", body["ramo"])
	assert.Equal(t, 50.0, body["valorTotal"], "client-supplied total is recomputed")
	assert.NotEmpty(t, body["createdAt"])
	assert.Equal(t, 1, f.inventory.Len())
}

func TestFunctions_InventoryStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
	}{
		{name: "put_without_id", method: http.MethodPut, target: "/inventory", body: `{"quantidade":1}`, wantCode: http.StatusBadRequest},
		{name: "delete_without_id", method: http.MethodDelete, target: "/inventory", wantCode: http.StatusBadRequest},
		{name: "put_unknown_id", method: http.MethodPut, target: "/inventory?id=64b000000000000000000000", body: `{"quantidade":1}`, wantCode: http.StatusNotFound},
		{name: "delete_unknown_id", method: http.MethodDelete, target: "/inventory?id=nope", wantCode: http.StatusNotFound},
		{name: "get_unknown_id", method: http.MethodGet, target: "/inventory?id=nope", wantCode: http.StatusNotFound},
		{name: "unknown_label", method: http.MethodPost, target: "/inventory", body: strings.Replace(campBadge, "Todos", "Unknown", 1), wantCode: http.StatusBadRequest},
		{name: "malformed_body", method: http.MethodPost, target: "/inventory", body: `{`, wantCode: http.StatusBadRequest},
		{name: "negative_quantity", method: http.MethodPut, target: "/inventory?id=64b000000000000000000000", body: `{"quantidade":-3}`, wantCode: http.StatusBadRequest},
		{name: "patch_not_allowed", method: http.MethodPatch, target: "/inventory", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFunctionsFixture()
			rec := f.do(tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFunctions_UpdateAndDeleteInventoryItem(t *testing.T) {
	f := newFunctionsFixture()

	rec := f.do(http.MethodPost, "/inventory", campBadge)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	rec = f.do(http.MethodPut, "/inventory?id="+id, `{"quantidade":4,"ramo":"Lobinho"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 20.0, updated["valorTotal"])
	assert.Equal(t, "Lobinho", updated["ramo"])
	assert.Equal(t, "Camp Badge", updated["descricao"])

	rec = f.do(http.MethodDelete, "/inventory?id="+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Zero(t, f.inventory.Len())
}

func TestFunctions_Requests(t *testing.T) {
	f := newFunctionsFixture()

	rec := f.do(http.MethodPost, "/requests", `{"nome":"Ana Souza","grupoEscoteiro":"GE Arés 193","email":"ana@example.org",
		"telefone":"(11) 99999-0000","itemSolicitado":"Arganel","quantidade":2,"status":"resolvida"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "pendente", created["status"])
	id := created["id"].(string)

	rec = f.do(http.MethodGet, "/requests?status=pendente", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Len(t, pending, 1)

	rec = f.do(http.MethodPut, "/requests?id="+id, `{"status":"resolvida"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/requests?status=pendente", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
	}{
		{name: "put_without_id", method: http.MethodPut, target: "/requests", body: `{"status":"resolvida"}`, wantCode: http.StatusBadRequest},
		{name: "canonical_status_is_rejected", method: http.MethodPut, target: "/requests?id=" + id, body: `{"status":"resolved"}`, wantCode: http.StatusBadRequest},
		{name: "unknown_filter", method: http.MethodGet, target: "/requests?status=aberta", wantCode: http.StatusBadRequest},
		{name: "missing_email", method: http.MethodPost, target: "/requests", body: `{"nome":"Ana","quantidade":1}`, wantCode: http.StatusBadRequest},
		{name: "delete_not_allowed", method: http.MethodDelete, target: "/requests?id=" + id, wantCode: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, f.do(tt.method, tt.target, tt.body).Code)
		})
	}
}

func TestFunctions_BackendFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "unreachable_store", err: context.DeadlineExceeded, wantCode: http.StatusServiceUnavailable},
		{name: "unexpected_error", err: errors.New("bad command"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFunctionsFixture()
			f.inventory.Err = tt.err

			rec := f.do(http.MethodGet, "/inventory", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "bad command")
		})
	}
}

func TestFunctions_Health(t *testing.T) {
	f := newFunctionsFixture()
	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","backend":"document"}`, rec.Body.String())
}
