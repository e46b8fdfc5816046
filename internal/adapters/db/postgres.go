// internal/adapters/db/postgres.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

var _ ports.Database = (*Database)(nil)

// Config is the relational pool configuration. Profiles and withdrawals
// always use it; inventory and requests only when the relational backend
// is selected.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConnections    int32
	MinConnections    int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration

	// StatementCacheMode is one of prepare, describe or exec.
	StatementCacheMode string
	EnableQueryLogging bool
}

// DSN returns a postgres URL for tools that open their own connection.
func (c *Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c *Config) pool(logger *slog.Logger) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pc.MaxConns = c.MaxConnections
	pc.MinConns = c.MinConnections
	pc.MaxConnLifetime = c.MaxConnLifetime
	pc.MaxConnIdleTime = c.MaxConnIdleTime
	pc.HealthCheckPeriod = c.HealthCheckPeriod

	switch c.StatementCacheMode {
	case "prepare":
		pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	case "exec":
		pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	default:
		// works behind PgBouncer in transaction mode
		pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	}

	if c.EnableQueryLogging {
		pc.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger{logger.With(slog.String("component", "pgx"))},
			LogLevel: tracelog.LogLevelDebug,
		}
	}
	return pc, nil
}

// Database is the pgx pool shared by the relational adapters.
type Database struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewDatabase opens the pool and verifies it with a ping.
func NewDatabase(ctx context.Context, config *Config, logger *slog.Logger) (*Database, error) {
	if config == nil {
		return nil, errors.New("database config is required")
	}

	pc, err := config.pool(logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", config.Database, err)
	}

	logger.Info("database connection established",
		slog.String("host", config.Host),
		slog.String("database", config.Database),
		slog.Int("max_connections", int(config.MaxConnections)),
	)
	return &Database{pool: pool, logger: logger}, nil
}

// Pool exposes the pgx pool to tests.
func (db *Database) Pool() *pgxpool.Pool { return db.pool }

func (db *Database) Close() {
	db.pool.Close()
	db.logger.Info("database connections closed")
}

func (db *Database) Ping(ctx context.Context) error { return db.pool.Ping(ctx) }

func (db *Database) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *Database) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *Database) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

// queryLogger forwards pgx trace events to slog.
type queryLogger struct {
	logger *slog.Logger
}

var traceLevels = map[tracelog.LogLevel]slog.Level{
	tracelog.LogLevelError: slog.LevelError,
	tracelog.LogLevelWarn:  slog.LevelWarn,
	tracelog.LogLevelInfo:  slog.LevelInfo,
}

func (l queryLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	lvl, ok := traceLevels[level]
	if !ok {
		lvl = slog.LevelDebug
	}
	attrs := make([]slog.Attr, 0, len(data))
	for k, v := range data {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(ctx, lvl, msg, attrs...)
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
