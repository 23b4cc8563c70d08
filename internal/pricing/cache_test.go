package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetOrFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("hit within TTL avoids fetch", func(t *testing.T) {
		now := time.Unix(1000, 0)
		cache := NewMemoryCacheWithClock(func() time.Time { return now })

		calls := 0
		fetch := func(ctx context.Context) (float64, error) {
			calls++
			return 6000000, nil
		}

		price, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", 300*time.Second, fetch)
		require.NoError(t, err)
		assert.Equal(t, float64(6000000), price)
		assert.Equal(t, 1, calls)

		now = now.Add(299 * time.Second)
		price, err = cache.GetOrFetch(ctx, "price:bitcoin:inr", 300*time.Second, fetch)
		require.NoError(t, err)
		assert.Equal(t, float64(6000000), price)
		assert.Equal(t, 1, calls, "a fresh entry must not trigger a fetch")
	})

	t.Run("expired entry is refetched", func(t *testing.T) {
		now := time.Unix(1000, 0)
		cache := NewMemoryCacheWithClock(func() time.Time { return now })

		calls := 0
		fetch := func(ctx context.Context) (float64, error) {
			calls++
			return float64(100 * calls), nil
		}

		_, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", 300*time.Second, fetch)
		require.NoError(t, err)

		now = now.Add(301 * time.Second)
		price, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", 300*time.Second, fetch)
		require.NoError(t, err)
		assert.Equal(t, float64(200), price)
		assert.Equal(t, 2, calls)
	})

	t.Run("fetch failure is not cached", func(t *testing.T) {
		cache := NewMemoryCache()

		calls := 0
		boom := errors.New("upstream down")
		fetch := func(ctx context.Context) (float64, error) {
			calls++
			if calls == 1 {
				return 0, boom
			}
			return 42, nil
		}

		_, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", time.Minute, fetch)
		require.ErrorIs(t, err, boom)

		price, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, float64(42), price)
		assert.Equal(t, 2, calls)
	})

	t.Run("keys are independent", func(t *testing.T) {
		cache := NewMemoryCache()

		_, err := cache.GetOrFetch(ctx, "price:bitcoin:inr", time.Minute, func(ctx context.Context) (float64, error) {
			return 1, nil
		})
		require.NoError(t, err)

		price, err := cache.GetOrFetch(ctx, "price:bitcoin:usd", time.Minute, func(ctx context.Context) (float64, error) {
			return 2, nil
		})
		require.NoError(t, err)
		assert.Equal(t, float64(2), price)
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "price:bitcoin:inr", CacheKey("bitcoin", "INR"))
	assert.Equal(t, "price:bitcoin:inr", CacheKey("Bitcoin", "inr"))
	assert.Equal(t, "price:ethereum:usd", CacheKey("ethereum", "USD"))
}
