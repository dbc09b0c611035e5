// Package redis provides the Redis Cache adapter used in production
// deployments of the engine.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/jawabu/ussd/pkg/domain"
)

// Cache implements ports.Cache using Redis. Keys pass through untouched;
// prefixing is the engine's job.
type Cache struct {
	client *backend.Client
}

// New creates a Redis cache from connection parameters.
func New(address, password string, db int) *Cache {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}))
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client) *Cache {
	return &Cache{client: client}
}

// NewFromURL creates a Redis cache from a redis:// URL.
func NewFromURL(url string) (*Cache, error) {
	opts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(opts)), nil
}

// Get fetches a value from Redis.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set stores a value with an optional TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes keys, returning how many existed.
func (c *Cache) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete from redis: %w", err)
	}
	return n, nil
}

// Keys lists keys matching a redis glob pattern.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis keys: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
