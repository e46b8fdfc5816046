// internal/adapters/mongo/client.go
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds document store connection settings
type Config struct {
	URI                 string
	Database            string
	InventoryCollection string
	RequestCollection   string
	ConnectTimeout      time.Duration
	ServerSelectTimeout time.Duration
	MaxPoolSize         uint64
}

// Client owns the connection to the document store. It is opened once at
// startup, shared by every component and closed on shutdown.
type Client struct {
	client *driver.Client
	db     *driver.Database
	config *Config
	logger *slog.Logger
}

// Connect opens the client and pings the primary
func Connect(ctx context.Context, cfg *Config, logger *slog.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("scout-inventory")
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := driver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	logger.Info("document store connection established",
		slog.String("database", cfg.Database),
		slog.Uint64("max_pool_size", cfg.MaxPoolSize))

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		config: cfg,
		logger: logger.With(slog.String("component", "mongo")),
	}, nil
}

// Inventory returns the inventory collection
func (c *Client) Inventory() *driver.Collection {
	return c.db.Collection(c.config.InventoryCollection)
}

// Requests returns the item request collection
func (c *Client) Requests() *driver.Collection {
	return c.db.Collection(c.config.RequestCollection)
}

// Ping checks the primary is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect document store: %w", err)
	}
	c.logger.Info("document store connection closed")
	return nil
}
