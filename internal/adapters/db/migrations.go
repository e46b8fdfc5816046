// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// EmbeddedMigrations holds the relational schema shipped with the binary.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

// MigrationConfig describes where the schema lives and where it is applied.
type MigrationConfig struct {
	DatabaseURL string
	// SourcePath, when set, reads migrations from disk instead of the embedded set.
	SourcePath string
	TableName  string
	SchemaName string
	// ForceDirty clears a dirty flag left by an interrupted run before applying.
	ForceDirty       bool
	StatementTimeout time.Duration
}

func (c *MigrationConfig) withDefaults() MigrationConfig {
	out := *c
	if out.TableName == "" {
		out.TableName = "schema_migrations"
	}
	if out.SchemaName == "" {
		out.SchemaName = "public"
	}
	if out.StatementTimeout == 0 {
		out.StatementTimeout = 10 * time.Minute
	}
	return out
}

// AppliedMigration is one row of the migrations table.
type AppliedMigration struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the inventory schema through golang-migrate.
type Migrator struct {
	m      *migrate.Migrate
	conn   *sql.DB
	cfg    MigrationConfig
	logger *slog.Logger
}

// NewMigrator opens a short-lived connection dedicated to schema changes.
func NewMigrator(config *MigrationConfig, logger *slog.Logger) (*Migrator, error) {
	if config == nil {
		return nil, errors.New("migration config is required")
	}
	cfg := config.withDefaults()

	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open schema connection: %w", err)
	}
	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(2)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping schema connection: %w", err)
	}

	m, err := newMigrate(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Migrator{
		m:      m,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "migrator")),
	}, nil
}

func newMigrate(conn *sql.DB, cfg MigrationConfig) (*migrate.Migrate, error) {
	target, err := postgres.WithInstance(conn, &postgres.Config{
		MigrationsTable:  cfg.TableName,
		SchemaName:       cfg.SchemaName,
		StatementTimeout: cfg.StatementTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	name, src, err := schemaSource(cfg.SourcePath)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance(name, src, "postgres", target)
	if err != nil {
		return nil, fmt.Errorf("migration instance: %w", err)
	}
	return m, nil
}

// schemaSource picks the on-disk directory when given, otherwise the embedded files.
func schemaSource(path string) (string, source.Driver, error) {
	if path == "" {
		d, err := iofs.New(EmbeddedMigrations, "migrations")
		if err != nil {
			return "", nil, fmt.Errorf("embedded migrations: %w", err)
		}
		return "iofs", d, nil
	}
	d, err := source.Open("file://" + path)
	if err != nil {
		return "", nil, fmt.Errorf("migration files at %s: %w", path, err)
	}
	return "file", d, nil
}

// Up brings the schema to the newest version and logs what is applied.
func (m *Migrator) Up(ctx context.Context) error {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		m.logger.InfoContext(ctx, "empty schema, applying all migrations")
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case dirty && !m.cfg.ForceDirty:
		return fmt.Errorf("schema is dirty at version %d", version)
	case dirty:
		m.logger.WarnContext(ctx, "clearing dirty schema flag", slog.Uint64("version", uint64(version)))
		if err := m.m.Force(int(version)); err != nil {
			return fmt.Errorf("force schema version %d: %w", version, err)
		}
	}

	err = m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.InfoContext(ctx, "schema up to date", slog.Uint64("version", uint64(version)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, m.conn, m.cfg.SchemaName, m.cfg.TableName)
	if err != nil {
		m.logger.WarnContext(ctx, "could not list applied migrations", slog.String("error", err.Error()))
		return nil
	}
	for _, a := range applied {
		m.logger.InfoContext(ctx, "schema version applied", slog.Uint64("version", uint64(a.Version)))
	}
	return nil
}

func appliedMigrations(ctx context.Context, conn *sql.DB, schema, table string) ([]AppliedMigration, error) {
	rows, err := conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT version, dirty FROM %s.%s ORDER BY version ASC`, schema, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Dirty); err != nil {
			return nil, err
		}
		applied = append(applied, a)
	}
	return applied, rows.Err()
}

// Close releases the migration source and the schema connection.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrationsWithRetry applies the schema, retrying while the database
// is still coming up.
func RunMigrationsWithRetry(ctx context.Context, config *MigrationConfig, logger *slog.Logger, maxRetries int) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * 2 * time.Second
			logger.InfoContext(ctx, "retrying migration",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if lastErr = migrateOnce(ctx, config, logger); lastErr == nil {
			return nil
		}
		logger.ErrorContext(ctx, "migration attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))
	}
	return fmt.Errorf("migrations failed after %d attempts: %w", maxRetries, lastErr)
}

func migrateOnce(ctx context.Context, config *MigrationConfig, logger *slog.Logger) error {
	migrator, err := NewMigrator(config, logger)
	if err != nil {
		return err
	}
	return errors.Join(migrator.Up(ctx), migrator.Close())
}
