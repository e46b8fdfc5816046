package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
)

// relationalTables in truncation order; children first.
var relationalTables = []string{
	"material_withdrawals",
	"profiles",
	"item_requests",
	"inventory_items",
}

// TestDB is a disposable Postgres with the embedded schema applied.
type TestDB struct {
	Database *db.Database
	PgxPool  *pgxpool.Pool
	Config   *db.Config
}

// TestRedis pairs a miniredis server with a client pointed at it.
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// SetupTestDB starts postgres:16-alpine through dockertest. The container is
// purged when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "docker is required for database tests")
	pool.MaxWait = 90 * time.Second

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env:        []string{"POSTGRES_USER=test", "POSTGRES_PASSWORD=test", "POSTGRES_DB=test_inventory"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pool.Purge(container); err != nil {
			t.Logf("purge postgres container: %v", err)
		}
	})

	cfg := &db.Config{
		Host:               "localhost",
		Port:               container.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_inventory",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    10 * time.Minute,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     5 * time.Second,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	require.NoError(t, pool.Retry(func() error {
		var err error
		database, err = db.NewDatabase(context.Background(), cfg, TestLogger())
		return err
	}), "connect to postgres")
	t.Cleanup(database.Close)

	require.NoError(t, db.RunMigrationsWithRetry(context.Background(),
		&db.MigrationConfig{DatabaseURL: cfg.DSN()}, TestLogger(), 3), "apply schema")

	return &TestDB{Database: database, PgxPool: database.Pool(), Config: cfg}
}

// TruncateAllTables empties every relational table between tests.
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	for _, table := range relationalTables {
		_, err := pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
}

// SetupTestRedis starts an in-memory Redis for the lifetime of t.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return &TestRedis{Client: client, Server: srv}
}
