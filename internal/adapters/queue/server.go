package queue

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

const (
	retryBase = time.Second
	retryCap  = 10 * time.Minute
)

// NewServer builds the asynq worker server for the inventory task queues.
func NewServer(opt asynq.RedisConnOpt, cfg config.AsynqConfig, logger *slog.Logger) *asynq.Server {
	l := NewLogger(logger)
	return asynq.NewServer(opt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          cfg.Queues,
		StrictPriority:  cfg.StrictPriority,
		ShutdownTimeout: cfg.ShutdownTimeout,
		RetryDelayFunc:  RetryDelay,
		Logger:          l,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			level := slog.LevelWarn
			if retried >= maxRetry {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "task failed",
				slog.String("type", task.Type()),
				slog.Int("retried", retried),
				slog.Int("max_retry", maxRetry),
				slog.String("error", err.Error()))
		}),
		HealthCheckFunc: func(err error) {
			if err != nil {
				logger.Error("queue health check failed", slog.String("error", err.Error()))
			}
		},
	})
}

// NewMux routes each task type to its handler.
func NewMux(handlers map[string]asynq.HandlerFunc) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for typ, h := range handlers {
		mux.HandleFunc(typ, h)
	}
	return mux
}

// RetryDelay doubles from one second per attempt and caps at ten minutes.
func RetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n >= 30 {
		return retryCap
	}
	d := retryBase << uint(n)
	if d > retryCap {
		return retryCap
	}
	return d
}

// Logger adapts slog to asynq.Logger.
type Logger struct {
	l *slog.Logger
}

func NewLogger(l *slog.Logger) *Logger {
	return &Logger{l: l.With(slog.String("component", "asynq"))}
}

func (a *Logger) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...)) }
func (a *Logger) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...)) }
func (a *Logger) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...)) }
func (a *Logger) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...)) }

func (a *Logger) Fatal(args ...interface{}) {
	a.l.Error(fmt.Sprint(args...))
	os.Exit(1)
}
