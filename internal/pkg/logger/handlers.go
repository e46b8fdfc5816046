// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// contextHandler appends the propagated context values to each record.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	added := false
	for _, k := range propagated {
		v, _ := ctx.Value(k).(string)
		if v == "" {
			continue
		}
		if !added {
			r = r.Clone()
			added = true
		}
		r.AddAttrs(slog.String(string(k), v))
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(as []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(as)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}

const redacted = "***REDACTED***"

// sensitiveKeys redact the whole value when an attribute key contains them.
var sensitiveKeys = []string{"password", "pwd", "secret", "token", "authorization", "jwt", "api_key", "apikey"}

var (
	inlineSecret = regexp.MustCompile(`(?i)(password|pwd|secret|token|jwt|api[-_]?key)(\s*[:=]\s*)["']?[^"'\s]+`)
	bearerToken  = regexp.MustCompile(`(?i)(bearer)(\s+)[A-Za-z0-9._~+/=-]+`)
	// requesters leave their e-mail on item requests; keep the first letter and domain
	emailAddress = regexp.MustCompile(`\b([A-Za-z0-9._%+-])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`)
)

// maskingHandler scrubs credentials and e-mail addresses from messages and
// string attributes.
type maskingHandler struct {
	next slog.Handler
}

func (h *maskingHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *maskingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, mask(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(maskAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *maskingHandler) WithAttrs(as []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(as))
	for i, a := range as {
		masked[i] = maskAttr(a)
	}
	return &maskingHandler{next: h.next.WithAttrs(masked)}
}

func (h *maskingHandler) WithGroup(name string) slog.Handler {
	return &maskingHandler{next: h.next.WithGroup(name)}
}

func maskAttr(a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, redacted)
		}
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, mask(a.Value.String()))
	case slog.KindGroup:
		members := a.Value.Group()
		masked := make([]any, len(members))
		for i, m := range members {
			masked[i] = maskAttr(m)
		}
		return slog.Group(a.Key, masked...)
	default:
		return a
	}
}

func mask(s string) string {
	s = inlineSecret.ReplaceAllString(s, "${1}${2}"+redacted)
	s = bearerToken.ReplaceAllString(s, "${1}${2}"+redacted)
	return emailAddress.ReplaceAllString(s, "${1}***@${2}")
}

// consoleHandler prints one coloured line per record for local development.
// Groups are flattened.
type consoleHandler struct {
	level slog.Leveler
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	var lvl slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		lvl = opts.Level
	}
	return &consoleHandler{level: lvl, mu: &sync.Mutex{}, w: w}
}

func (h *consoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

const (
	ansiReset = "\033[0m"
	ansiKey   = "\033[36m"
)

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %-5s%s %s",
		levelColour(r.Level), r.Time.Format("15:04:05.000"), r.Level, ansiReset, r.Message)

	field := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s%s%s=%v", ansiKey, a.Key, ansiReset, a.Value)
		return true
	}
	for _, a := range h.attrs {
		field(a)
	}
	r.Attrs(field)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(as []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), as...)
	return &c
}

func (h *consoleHandler) WithGroup(string) slog.Handler { return h }

func levelColour(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31m"
	case l >= slog.LevelWarn:
		return "\033[33m"
	case l >= slog.LevelInfo:
		return "\033[34m"
	default:
		return "\033[37m"
	}
}
