package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&LogConfig{Level: "info", Format: "json", Output: &buf, Environment: "test"})

	ctx := WithValue(context.Background(), ContextKeyRequestID, "req-1")
	log.InfoContext(ctx, "item created", slog.String("id", "42"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "INFO", entry["severity"])
	assert.Equal(t, "item created", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "42", entry["id"])
	assert.Equal(t, "test", entry["env"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&LogConfig{Level: "warn", Format: "json", Output: &buf})

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSanitization(t *testing.T) {
	tests := []struct {
		name    string
		log     func(*slog.Logger)
		key     string
		want    string
		wantMsg string
	}{
		{
			name: "sensitive_key_is_redacted",
			log:  func(l *slog.Logger) { l.Info("login", slog.String("password", "hunter2")) },
			key:  "password",
			want: redacted,
		},
		{
			name: "email_is_masked",
			log:  func(l *slog.Logger) { l.Info("request", slog.String("requester", "ana.souza@example.org")) },
			key:  "requester",
			want: "a***@example.org",
		},
		{
			name:    "bearer_in_message",
			log:     func(l *slog.Logger) { l.Info("header Bearer abc.def.ghi received") },
			wantMsg: "header Bearer " + redacted + " received",
		},
		{
			name: "inline_secret",
			log:  func(l *slog.Logger) { l.Info("dial", slog.String("dsn", "host=db password=s3cret")) },
			key:  "dsn",
			want: "host=db password=" + redacted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(&LogConfig{Level: "debug", Format: "json", Output: &buf}))

			entry := decodeLine(t, &buf)
			if tt.key != "" {
				assert.Equal(t, tt.want, entry[tt.key])
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, entry["msg"])
			}
		})
	}
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&LogConfig{Level: "debug", Format: "text", Output: &buf}).
		With(slog.String("component", "seeder"))

	log.Debug("seeded", slog.Int("items", 3))

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "seeded")
	assert.Contains(t, line, "component")
	assert.Contains(t, line, "items")
}
