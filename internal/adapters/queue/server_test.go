package queue

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first_retry", attempt: 0, want: time.Second},
		{name: "third_retry", attempt: 3, want: 8 * time.Second},
		{name: "capped", attempt: 12, want: 10 * time.Minute},
		{name: "large_attempt_does_not_overflow", attempt: 200, want: 10 * time.Minute},
		{name: "negative_attempt", attempt: -1, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryDelay(tt.attempt, nil, nil))
		})
	}
}

func TestLogger_Adapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Info("processing ", 3, " tasks")
	assert.Contains(t, buf.String(), "processing 3 tasks")
	assert.Contains(t, buf.String(), "component=asynq")
}
