// Package memory provides an in-process Cache adapter, mainly for tests
// and single-node development setups.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/jawabu/ussd/pkg/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache implements ports.Cache in memory. Safe for concurrent use.
// Expired entries are pruned lazily on access.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get fetches a value, honoring expiry.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return nil, domain.ErrKeyNotFound
	}

	// Copy on read so callers can't mutate stored bytes.
	val := make([]byte, len(e.value))
	copy(val, e.value)
	return val, nil
}

// Set stores a value with an optional TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	val := make([]byte, len(value))
	copy(val, value)

	e := entry{value: val}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Delete removes keys, counting only ones that existed and were live.
func (c *Cache) Delete(ctx context.Context, keys ...string) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, key := range keys {
		if e, ok := c.data[key]; ok {
			if !e.expired(now) {
				n++
			}
			delete(c.data, key)
		}
	}
	return n, nil
}

// Keys lists live keys matching a glob pattern.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.data))
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close is a no-op for the in-memory cache.
func (c *Cache) Close() error {
	return nil
}
