// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	redis_a "github.com/escoteiros/scout-inventory/internal/adapters/redis_adapter"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

const (
	stateHealthy   = "healthy"
	stateUnhealthy = "unhealthy"
	stateDegraded  = "degraded"
)

// probe checks one dependency. details may be nil.
type probe struct {
	name  string
	check func(ctx context.Context) (details map[string]interface{}, err error)
}

// HealthHandler reports liveness of the backend, the cache and the task queue.
// redis, cache and asynq are optional.
type HealthHandler struct {
	probes    []probe
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

func NewHealthHandler(
	backend ports.BackendAdapter,
	redisClient *redis.Client,
	cache *redis_a.Cache,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	h := &HealthHandler{
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}

	// The backend probe reports under its kind for readiness, "backend" for health.
	h.probes = append(h.probes, probe{name: backend.Name(), check: func(ctx context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"kind": backend.Name()}, backend.Ping(ctx)
	}})
	if redisClient != nil {
		h.probes = append(h.probes, probe{name: "redis", check: redisProbe(redisClient, cache)})
	}
	if asynqInspector != nil {
		h.probes = append(h.probes, probe{name: "asynq", check: asynqProbe(asynqInspector)})
	}
	return h
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	HeapAllocMB   uint64 `json:"heap_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles GET /health. Any failing dependency makes the service degraded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:      stateHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services:    make(map[string]ServiceInfo, len(h.probes)),
		System:      systemInfo(),
	}

	for i, p := range h.probes {
		info := h.run(ctx, p)
		key := p.name
		if i == 0 {
			key = "backend"
		}
		status.Services[key] = info
		if info.Status != stateHealthy {
			status.Status = stateDegraded
		}
	}

	code := http.StatusOK
	if status.Status != stateHealthy {
		code = http.StatusServiceUnavailable
	}
	h.write(w, code, status)
}

// Readiness handles GET /ready with a per-dependency ready/not ready map.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string, len(h.probes))
	for _, p := range h.probes {
		if p.name == "asynq" {
			continue
		}
		if _, err := p.check(ctx); err != nil {
			ready = false
			details[p.name] = "not ready"
			continue
		}
		details[p.name] = "ready"
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	h.write(w, code, map[string]interface{}{"ready": ready, "details": details})
}

func (h *HealthHandler) run(ctx context.Context, p probe) ServiceInfo {
	start := time.Now()
	details, err := p.check(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "dependency check failed",
			slog.String("dependency", p.name),
			slog.String("error", err.Error()))
		return ServiceInfo{Status: stateUnhealthy, Message: err.Error(), Details: details}
	}
	return ServiceInfo{
		Status:       stateHealthy,
		ResponseTime: time.Since(start).String(),
		Details:      details,
	}
}

func (h *HealthHandler) write(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(h.logger, w, code, body)
}

func redisProbe(client *redis.Client, cache *redis_a.Cache) func(context.Context) (map[string]interface{}, error) {
	return func(ctx context.Context) (map[string]interface{}, error) {
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		stats := client.PoolStats()
		details := map[string]interface{}{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		}
		if cache != nil {
			details["cache"] = cache.Stats()
		}
		return details, nil
	}
}

// asynqProbe reports backlog per queue so stuck withdrawal notices show up.
func asynqProbe(inspector *asynq.Inspector) func(context.Context) (map[string]interface{}, error) {
	return func(context.Context) (map[string]interface{}, error) {
		queues, err := inspector.Queues()
		if err != nil {
			return nil, err
		}
		backlog := make(map[string]interface{}, len(queues))
		for _, name := range queues {
			q, err := inspector.GetQueueInfo(name)
			if err != nil {
				continue
			}
			backlog[name] = map[string]int{
				"pending":  q.Pending,
				"active":   q.Active,
				"retry":    q.Retry,
				"archived": q.Archived,
			}
		}
		details := map[string]interface{}{"queues": backlog}
		if servers, err := inspector.Servers(); err == nil {
			details["servers"] = len(servers)
		}
		return details, nil
	}
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		HeapAllocMB:   m.HeapAlloc >> 20,
		NumGC:         m.NumGC,
	}
}
