package srcom_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

const storedURI = "https://www.speedrun.com/api/v1/runs?game=g1&offset=20"

func newRedisStore(t *testing.T) (*srcom.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	store, err := srcom.NewRedisCache(&srcom.RedisConfig{Addr: server.Addr()})
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store, server
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRedisCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t)

		_, err := store.Get(ctx, storedURI)
		require.ErrorIs(t, err, srcom.ErrKeyNotFound)
		assert.False(t, store.Has(ctx, storedURI))
	})

	t.Run("key expires with the entry", func(t *testing.T) {
		t.Parallel()

		store, server := newRedisStore(t)
		entry := &srcom.CacheEntry{
			Data:      []byte(`{"data":[]}`),
			StoredAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Minute),
		}

		require.NoError(t, store.Set(ctx, storedURI, entry))

		got, err := store.Get(ctx, storedURI)
		require.NoError(t, err)
		assert.Equal(t, entry.Data, got.Data)
		assert.True(t, store.Has(ctx, storedURI))

		ttl := server.TTL(constants.DefaultRedisPrefix + storedURI)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)

		server.FastForward(2 * time.Minute)

		_, err = store.Get(ctx, storedURI)
		require.ErrorIs(t, err, srcom.ErrKeyNotFound)
	})

	t.Run("zero expiry keeps the key", func(t *testing.T) {
		t.Parallel()

		store, server := newRedisStore(t)

		require.NoError(t, store.Set(ctx, storedURI, &srcom.CacheEntry{Data: []byte(`{}`)}))
		assert.True(t, server.Exists(constants.DefaultRedisPrefix+storedURI))
		assert.Equal(t, time.Duration(0), server.TTL(constants.DefaultRedisPrefix+storedURI))
	})

	t.Run("expired entries are not written", func(t *testing.T) {
		t.Parallel()

		store, server := newRedisStore(t)
		entry := &srcom.CacheEntry{Data: []byte(`{}`), ExpiresAt: time.Now().Add(-time.Second)}

		require.NoError(t, store.Set(ctx, storedURI, entry))
		assert.False(t, server.Exists(constants.DefaultRedisPrefix+storedURI))
	})

	t.Run("delete and clear stay within the prefix", func(t *testing.T) {
		t.Parallel()

		store, server := newRedisStore(t)
		require.NoError(t, server.Set("unrelated", "x"))

		for _, key := range []string{"games/g1", "games/g2", storedURI} {
			require.NoError(t, store.Set(ctx, key, &srcom.CacheEntry{Data: []byte(`{}`)}))
		}

		require.NoError(t, store.Delete(ctx, "games/g1"))
		assert.False(t, store.Has(ctx, "games/g1"))
		assert.True(t, store.Has(ctx, "games/g2"))

		require.NoError(t, store.Clear(ctx))
		assert.False(t, store.Has(ctx, "games/g2"))
		assert.False(t, store.Has(ctx, storedURI))
		assert.True(t, server.Exists("unrelated"))
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Parallel()

		_, server := newRedisStore(t)
		prefixed, err := srcom.NewRedisCache(&srcom.RedisConfig{Addr: server.Addr(), Prefix: "other:"})
		require.NoError(t, err)

		defer func() { _ = prefixed.Close() }()

		require.NoError(t, prefixed.Set(ctx, "games/g1", &srcom.CacheEntry{Data: []byte(`{}`)}))
		assert.True(t, server.Exists("other:games/g1"))
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		server := miniredis.RunT(t)
		addr := server.Addr()
		server.Close()

		_, err := srcom.NewRedisCache(&srcom.RedisConfig{Addr: addr})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connecting to redis")
	})
}
