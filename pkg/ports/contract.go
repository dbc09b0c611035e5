package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawabu/ussd/pkg/domain"
)

// RunCacheContract runs a suite of tests verifying that a Cache
// implementation adheres to the interface contract.
func RunCacheContract(t *testing.T, cache Cache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, []byte("hello"), 0)
		require.NoError(t, err, "Set should not return error")

		val, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, []byte("hello"), val)
	})

	t.Run("Get Absent", func(t *testing.T) {
		_, err := cache.Get(ctx, "absent-"+key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("one"), 0))
		require.NoError(t, cache.Set(ctx, key, []byte("two"), 0))

		val, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), val)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("gone"), 0))

		n, err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")
		assert.EqualValues(t, 1, n)

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Delete should return ErrKeyNotFound")

		n, err = cache.Delete(ctx, key)
		require.NoError(t, err, "deleting an absent key fails silently")
		assert.EqualValues(t, 0, n)
	})

	t.Run("Keys", func(t *testing.T) {
		k1, k2 := key+":a", key+":b"
		require.NoError(t, cache.Set(ctx, k1, []byte("1"), 0))
		require.NoError(t, cache.Set(ctx, k2, []byte("2"), 0))
		defer func() {
			_, _ = cache.Delete(ctx, k1, k2)
		}()

		keys, err := cache.Keys(ctx, key+":*")
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
