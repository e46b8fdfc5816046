// internal/app/bootstrap.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/escoteiros/scout-inventory/internal/adapters/db"
	"github.com/escoteiros/scout-inventory/internal/adapters/edge"
	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/adapters/storage"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

// OpenDatabase connects the relational pool
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// Migrate applies the relational schema
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, logger, 3)
}

// ConnectMongo opens the document store and optionally creates its indexes
func ConnectMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, error) {
	logger.Info("connecting to document store",
		slog.String("database", cfg.Mongo.Database),
	)

	client, err := mongo.Connect(ctx, &mongo.Config{
		URI:                 cfg.Mongo.URI,
		Database:            cfg.Mongo.Database,
		InventoryCollection: cfg.Mongo.InventoryCollection,
		RequestCollection:   cfg.Mongo.RequestCollection,
		ConnectTimeout:      cfg.Mongo.ConnectTimeout,
		ServerSelectTimeout: cfg.Mongo.ServerSelectTimeout,
		MaxPoolSize:         cfg.Mongo.MaxPoolSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	if cfg.Mongo.EnsureIndexesOnStart {
		if err := mongo.EnsureIndexes(ctx, client); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
	}
	return client, nil
}

// NewEdgeClient builds the remote functions backend
func NewEdgeClient(cfg *config.Config, logger *slog.Logger) *edge.Client {
	return edge.NewClient(edge.Config{
		BaseURL: cfg.Edge.BaseURL,
		APIKey:  cfg.Edge.APIKey,
		Timeout: cfg.Edge.Timeout,
	}, logger)
}

// Backend is the selected inventory and request store together with the
// function releasing whatever it opened.
type Backend struct {
	ports.BackendAdapter
	Close func(context.Context) error
}

// OpenBackend selects the store named by cfg.Backend.Kind. The relational
// kind reuses database.
func OpenBackend(ctx context.Context, cfg *config.Config, database ports.Database, logger *slog.Logger) (*Backend, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend.Kind {
	case config.BackendRelational:
		return &Backend{BackendAdapter: db.NewBackend(database, logger), Close: noop}, nil
	case config.BackendDocument:
		client, err := ConnectMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{BackendAdapter: mongo.NewBackend(client, logger), Close: client.Close}, nil
	case config.BackendEdge:
		return &Backend{BackendAdapter: NewEdgeClient(cfg, logger), Close: noop}, nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
}

// NewRedisClient connects the cache client and checks it answers
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// AsynqRedisOpt returns the task queue connection settings
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// NewReportStorage opens the report bucket
func NewReportStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.S3Storage, error) {
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}
