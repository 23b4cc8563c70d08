package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CacheKey builds the cache key for an asset/currency pair, lowercased so
// "BTC"/"btc" share an entry.
func CacheKey(asset, currency string) string {
	return fmt.Sprintf("price:%s:%s", strings.ToLower(asset), strings.ToLower(currency))
}

// Fetcher retrieves a fresh price from the upstream API.
type Fetcher interface {
	FetchPrice(ctx context.Context, asset, currency string) (float64, error)
}

// Service answers price lookups through a TTL cache in front of the
// upstream price API.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
}

// NewService creates a price Service with the given cache TTL.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration) *Service {
	return &Service{fetcher: fetcher, cache: cache, ttl: ttl}
}

// Price returns the current price of asset in currency, served from cache
// when fresh.
func (s *Service) Price(ctx context.Context, asset, currency string) (float64, error) {
	key := CacheKey(asset, currency)
	return s.cache.GetOrFetch(ctx, key, s.ttl, func(ctx context.Context) (float64, error) {
		return s.fetcher.FetchPrice(ctx, asset, currency)
	})
}

var _ Fetcher = (*Client)(nil)
