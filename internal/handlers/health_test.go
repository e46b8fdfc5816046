package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/escoteiros/scout-inventory/internal/adapters/redis_adapter"
	"github.com/escoteiros/scout-inventory/internal/handlers"
	"github.com/escoteiros/scout-inventory/test/helpers"
	"github.com/escoteiros/scout-inventory/test/mocks"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		stopRedis      bool
		expectedStatus int
		expectedState  string
	}{
		{name: "all_healthy", expectedStatus: http.StatusOK, expectedState: "healthy"},
		{name: "backend_down", pingErr: errors.New("connection refused"), expectedStatus: http.StatusServiceUnavailable, expectedState: "degraded"},
		{name: "redis_down", stopRedis: true, expectedStatus: http.StatusServiceUnavailable, expectedState: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mocks.NewMockBackendAdapter(ctrl)
			backend.EXPECT().Name().Return("document").AnyTimes()
			backend.EXPECT().Ping(gomock.Any()).Return(tt.pingErr).AnyTimes()

			redis := helpers.SetupTestRedis(t)
			if tt.stopRedis {
				redis.Server.SetError("ERR server unavailable")
			}

			cache := redis_a.NewCache(redis.Client, time.Minute, helpers.TestLogger())

			mux := http.NewServeMux()
			(&handlers.API{
				Health: handlers.NewHealthHandler(backend, redis.Client, cache, nil, helpers.LoadTestConfig(), helpers.TestLogger()),
			}).Routes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())

			var body handlers.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedState, body.Status)
			assert.Contains(t, body.Services, "backend")
			if !tt.stopRedis {
				assert.Contains(t, body.Services["redis"].Details, "cache")
			}

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHealthHandler_WithoutRedis(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackendAdapter(ctrl)
	backend.EXPECT().Name().Return("relational").AnyTimes()
	backend.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()

	h := handlers.NewHealthHandler(backend, nil, nil, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"relational":"ready"`)
}
