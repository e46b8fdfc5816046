package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10_000
	clientIdleTTL     = 10 * time.Minute
)

// RateLimit allows requests per window for each client IP, with bursts up to
// requests. Clients idle for ten minutes are forgotten. requests <= 0
// disables limiting.
func RateLimit(requests int, window time.Duration) Middleware {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	var mu sync.Mutex
	clients := expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL)
	every := rate.Every(window / time.Duration(requests))
	retryAfter := strconv.Itoa(int(window.Seconds()))

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := clients.Get(ip)
		if !ok {
			lim = rate.NewLimiter(every, requests)
		}
		// re-adding refreshes the idle TTL
		clients.Add(ip, lim)
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientIP(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
