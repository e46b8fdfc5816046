// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey names a request-scoped value that is copied onto every record.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
)

// propagated in output order
var propagated = []ContextKey{
	ContextKeyRequestID,
	ContextKeyTraceID,
	ContextKeyUserID,
	ContextKeyClientIP,
	ContextKeyMethod,
	ContextKeyPath,
}

// LogConfig selects level, format (json or text) and the static service fields.
type LogConfig struct {
	Level          string
	Format         string
	Output         io.Writer
	AddSource      bool
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// SetupLogger builds the process logger from the environment and installs it
// as the slog default.
func SetupLogger(level, format string) *slog.Logger {
	l := NewLogger(&LogConfig{
		Level:          level,
		Format:         format,
		AddSource:      strings.EqualFold(level, "debug"),
		Environment:    os.Getenv("APP_ENV"),
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
	})
	slog.SetDefault(l)
	return l
}

// NewLogger writes JSON, or coloured text for local runs. Records carry the
// request context values and have credentials and e-mail addresses masked.
func NewLogger(cfg *LogConfig) *slog.Logger {
	if cfg == nil {
		cfg = &LogConfig{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	jsonOut := cfg.Format != "text"
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch {
			case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			case a.Key == slog.LevelKey && jsonOut:
				a.Key = "severity"
			}
			return a
		},
	}

	var h slog.Handler
	if jsonOut {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = newConsoleHandler(out, opts)
	}
	h = &maskingHandler{next: &contextHandler{next: h}}

	var static []slog.Attr
	for _, kv := range [][2]string{
		{"service", cfg.ServiceName},
		{"version", cfg.ServiceVersion},
		{"env", cfg.Environment},
	} {
		if kv[1] != "" {
			static = append(static, slog.String(kv[0], kv[1]))
		}
	}
	if len(static) > 0 {
		h = h.WithAttrs(static)
	}
	return slog.New(h)
}

// WithValue stores a loggable value under key.
func WithValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLevel accepts debug, info, warn(ing) and error; anything else is info.
func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
