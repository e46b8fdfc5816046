// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// scanBatch bounds both SCAN pages and DEL batches during invalidation.
const scanBatch = 200

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON encoded read models in Redis. The inventory listing is
// cached under inventory:list and dropped on every mutation.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

var _ ports.CacheRepository = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Get decodes key into dest. A missing key returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return ErrCacheMiss
	case err != nil:
		return c.fail(ctx, "get", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &CacheError{Op: "unmarshal", Key: key, Err: err}
	}
	c.hits.Add(1)
	return nil
}

// GetOrSet reads key into dest. On a miss it calls fetch, caches the result
// and decodes it into dest. A failed cache write does not fail the call. A
// ttl of zero or less uses the cache default.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	if err := c.Get(ctx, key, dest); !errors.Is(err, ErrCacheMiss) {
		return err
	}

	value, err := fetch()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return &CacheError{Op: "marshal", Key: key, Err: err}
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.store(ctx, key, raw, ttl); err != nil {
		c.logger.WarnContext(ctx, "serving uncached value", slog.String("key", key), slog.String("error", err.Error()))
	}
	return json.Unmarshal(raw, dest)
}

// DeletePattern removes every key matching a glob. No match is not an error.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	removed := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return c.fail(ctx, "del", strings.Join(batch, ","), err)
		}
		removed += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return c.fail(ctx, "scan", pattern, err)
	}
	if err := flush(); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "cache invalidated", slog.String("pattern", pattern), slog.Int("keys", removed))
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Cache) store(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return c.fail(ctx, "set", key, err)
	}
	return nil
}

func (c *Cache) fail(ctx context.Context, op, key string, err error) error {
	c.logger.ErrorContext(ctx, "cache operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()))
	return &CacheError{Op: op, Key: key, Err: err}
}

// CacheStats counts lookups since startup.
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func (c *Cache) Stats() CacheStats {
	s := CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if n := s.Hits + s.Misses; n > 0 {
		s.HitRate = float64(s.Hits) / float64(n)
	}
	return s
}

type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
