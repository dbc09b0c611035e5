package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisAdapter "github.com/jawabu/ussd/pkg/adapters/redis"
	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/ports"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redisAdapter.Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := redisAdapter.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })
	return mr, cache
}

func TestRedisCache_Contract(t *testing.T) {
	_, cache := newTestCache(t)
	ports.RunCacheContract(t, cache)
}

func TestRedisCache_TTL(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sess", []byte("v"), 75*time.Second))
	assert.True(t, mr.Exists("sess"))

	// miniredis advances expiry manually.
	mr.FastForward(76 * time.Second)

	_, err := cache.Get(ctx, "sess")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRedisCache_KeysAreOpaque(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	// The adapter must not rewrite or prefix keys.
	require.NoError(t, cache.Set(ctx, "app:session:254700111222", []byte("v"), 0))
	assert.True(t, mr.Exists("app:session:254700111222"))

	keys, err := cache.Keys(ctx, "app:session:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"app:session:254700111222"}, keys)
}

func TestRedisCache_NewFromURL(t *testing.T) {
	mr, _ := newTestCache(t)

	cache, err := redisAdapter.NewFromURL("redis://" + mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), 0))
	val, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	_, err = redisAdapter.NewFromURL("::bad::")
	assert.Error(t, err)
}
