package ports

import (
	"context"
	"time"
)

// Cache is the TTL key/value store the engine persists into. Keys are
// opaque strings; the engine does all prefixing (app name, namespace)
// before calling the port, and implementations must not interpret key
// structure.
type Cache interface {
	// Get fetches the value stored under key.
	// Returns domain.ErrKeyNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys, returning how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Keys lists keys matching a redis-style glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close releases the underlying connection.
	Close() error
}
