// internal/core/ports/cache.go
package ports

import (
	"context"
	"strings"
	"time"
)

// CacheRepository is the read-through cache in front of list queries.
type CacheRepository interface {
	// GetOrSet reads key into dest, calling fetch and caching its result on a
	// miss. A ttl of zero uses the cache default.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error
	// DeletePattern drops every key matching a glob such as "inventory:*".
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}

// CacheKeyPrefix namespaces cache keys per read model.
type CacheKeyPrefix string

const PrefixInventory CacheKeyPrefix = "inventory"

// CacheKey joins prefix and parts with colons.
func CacheKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}

// CachePattern matches every key under prefix.
func CachePattern(prefix CacheKeyPrefix) string {
	return string(prefix) + ":*"
}
