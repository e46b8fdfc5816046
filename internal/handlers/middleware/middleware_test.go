package middleware_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/handlers/middleware"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.RequestID("")(handler)

	tests := []struct {
		name     string
		incoming string
		check    func(*testing.T, string)
	}{
		{
			name: "generates_new_request_id",
			check: func(t *testing.T, id string) {
				assert.Len(t, id, 36)
			},
		},
		{
			name:     "keeps_existing_request_id",
			incoming: "req-from-proxy",
			check: func(t *testing.T, id string) {
				assert.Equal(t, "req-from-proxy", id)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			id := w.Header().Get("X-Request-ID")
			tt.check(t, id)
			assert.Equal(t, id, seen)
		})
	}
}

func TestLogger(t *testing.T) {
	wrapped := middleware.Logger(helpers.TestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", w.Body.String())
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.Handler
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "passes_through",
			handler:        okHandler(),
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name: "recovers_from_panic",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			}),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"request_id":"test-123"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.Recovery(helpers.TestLogger())(tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req = req.WithContext(logger.WithValue(req.Context(), logger.ContextKeyRequestID, "test-123"))
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Contains(t, w.Body.String(), "internal server error")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	wrapped := middleware.RateLimit(2, time.Minute)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:1234"
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	req.RemoteAddr = "192.168.1.1:5678"
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	wrapped := middleware.RateLimit(0, time.Minute)(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		requestMethod  string
		expectedStatus int
		checkHeaders   func(*testing.T, http.Header)
	}{
		{
			name:           "wildcard_allows_any_origin",
			allowedOrigins: []string{"*"},
			requestOrigin:  "https://example.com",
			requestMethod:  http.MethodGet,
			expectedStatus: http.StatusOK,
			checkHeaders: func(t *testing.T, headers http.Header) {
				assert.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))
				assert.Empty(t, headers.Get("Access-Control-Allow-Credentials"))
			},
		},
		{
			name:           "allows_specific_origin",
			allowedOrigins: []string{"https://app.example.com", "https://admin.example.com"},
			requestOrigin:  "https://app.example.com",
			requestMethod:  http.MethodGet,
			expectedStatus: http.StatusOK,
			checkHeaders: func(t *testing.T, headers http.Header) {
				assert.Equal(t, "https://app.example.com", headers.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", headers.Get("Access-Control-Allow-Credentials"))
			},
		},
		{
			name:           "handles_preflight_request",
			allowedOrigins: []string{"*"},
			requestOrigin:  "https://example.com",
			requestMethod:  http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			checkHeaders: func(t *testing.T, headers http.Header) {
				assert.Contains(t, headers.Get("Access-Control-Allow-Methods"), "DELETE")
				assert.Contains(t, headers.Get("Access-Control-Allow-Headers"), "apikey")
				assert.Contains(t, headers.Get("Access-Control-Allow-Headers"), "x-client-info")
			},
		},
		{
			name:           "blocks_unallowed_origin",
			allowedOrigins: []string{"https://allowed.com"},
			requestOrigin:  "https://notallowed.com",
			requestMethod:  http.MethodGet,
			expectedStatus: http.StatusOK,
			checkHeaders: func(t *testing.T, headers http.Header) {
				assert.Empty(t, headers.Get("Access-Control-Allow-Origin"))
				assert.Empty(t, headers.Get("Access-Control-Allow-Methods"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.CORS(tt.allowedOrigins)(okHandler())

			req := httptest.NewRequest(tt.requestMethod, "/test", nil)
			req.Header.Set("Origin", tt.requestOrigin)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkHeaders(t, w.Header())
		})
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	wrapped := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.True(t, hasDeadline)
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	middleware.SecureHeaders(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCompression(t *testing.T) {
	body := strings.Repeat("inventario ", 100)
	wrapped := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	wrapped := middleware.RateLimit(1, time.Minute)(okHandler())

	send := func(fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		req.Header.Set("X-Forwarded-For", fwd)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}

func TestCompression_NoContent(t *testing.T) {
	wrapped := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Zero(t, w.Body.Len())
}

func TestCompression_PassThrough(t *testing.T) {
	wrapped := middleware.Compression(okHandler())

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestMaxBody(t *testing.T) {
	wrapped := middleware.MaxBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "within_limit", body: "small", status: http.StatusOK},
		{name: "over_limit", body: "much too large for the limit", status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	middleware.Chain(okHandler(), mark("first"), mark("second"), mark("third")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestAuthenticate(t *testing.T) {
	verifier := middleware.NewTokenVerifier(config.AuthConfig{JWTSecret: helpers.TestJWTSecret})
	staff := domain.Identity{UserID: "user-1", Email: "chefe@example.org", Name: "Chefe Rui"}

	valid, err := middleware.IssueToken(helpers.TestJWTSecret, staff, time.Hour)
	require.NoError(t, err)
	expired, err := middleware.IssueToken(helpers.TestJWTSecret, staff, -time.Hour)
	require.NoError(t, err)
	foreign, err := middleware.IssueToken("some-other-secret-of-sufficient-length", staff, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     *domain.Identity
	}{
		{name: "anonymous_without_header", wantStatus: http.StatusOK},
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantID: &staff},
		{name: "expired_token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong_signature", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "malformed_header", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "empty_bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.Identity
			wrapped := middleware.Authenticate(verifier, helpers.TestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := domain.IdentityFromContext(r.Context()); ok {
					got = &id
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestClaims_IdentityFallsBackToMetadataName(t *testing.T) {
	claims := middleware.Claims{Email: "a@example.org"}
	claims.Subject = "user-9"
	claims.UserMetadata.FullName = "Ana Souza"

	assert.Equal(t, domain.Identity{UserID: "user-9", Email: "a@example.org", Name: "Ana Souza"}, claims.Identity())
}
