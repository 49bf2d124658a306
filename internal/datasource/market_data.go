package datasource

import (
	"context"
	"time"

	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/types"
)

// MarketData wraps a price provider with rate limiting and an optional file cache.
type MarketData struct {
	provider    string
	source      interfaces.MarketDataSource
	cache       *Cache
	rateLimiter *MultiRateLimiter
}

// NewMarketData composes source with limiter and cache. cache may be nil.
func NewMarketData(provider string, source interfaces.MarketDataSource, cache *Cache, limiter *MultiRateLimiter) *MarketData {
	return &MarketData{
		provider:    provider,
		source:      source,
		cache:       cache,
		rateLimiter: limiter,
	}
}

// GetCloses serves non-empty results from cache when possible.
func (m *MarketData) GetCloses(ctx context.Context, q types.PriceQuery) ([]types.PricePoint, error) {
	cacheKey := MakeKey("closes", m.provider, q.Ticker, string(q.Interval),
		q.Start.Format(time.RFC3339), q.End.Format(time.RFC3339))

	if m.cache != nil {
		var cached []types.PricePoint
		if m.cache.Get(cacheKey, &cached) {
			logger.Debug(ctx, "Returning cached closes", "ticker", q.Ticker, "count", len(cached))
			return cached, nil
		}
	}

	if err := m.rateLimiter.Wait(ctx, m.provider); err != nil {
		return nil, err
	}

	points, err := m.source.GetCloses(ctx, q)
	if err != nil {
		return nil, err
	}

	if m.cache != nil && len(points) > 0 {
		if err := m.cache.Set(cacheKey, points); err != nil {
			logger.Warn(ctx, "Failed to cache closes", "ticker", q.Ticker, "error", err)
		}
	}
	return points, nil
}

func (m *MarketData) IsListed(ctx context.Context, ticker string) (bool, error) {
	if err := m.rateLimiter.Wait(ctx, m.provider); err != nil {
		return false, err
	}
	return m.source.IsListed(ctx, ticker)
}

// RateLimitedFilings throttles a FilingsSource.
type RateLimitedFilings struct {
	source      interfaces.FilingsSource
	rateLimiter *MultiRateLimiter
}

func NewRateLimitedFilings(source interfaces.FilingsSource, limiter *MultiRateLimiter) *RateLimitedFilings {
	return &RateLimitedFilings{source: source, rateLimiter: limiter}
}

func (r *RateLimitedFilings) Search(ctx context.Context, form types.FilingForm, query string, size int) ([]byte, error) {
	if err := r.rateLimiter.Wait(ctx, ProviderSEC); err != nil {
		return nil, err
	}
	return r.source.Search(ctx, form, query, size)
}
