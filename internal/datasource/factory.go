package datasource

import (
	"fmt"
	"time"

	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/store"
)

// CreateMarketData builds the configured price provider wrapped with rate
// limiting and, when enabled, the file cache.
func CreateMarketData(cfg *store.Config) (interfaces.MarketDataSource, error) {
	timeout := time.Duration(cfg.Prices.TimeoutSeconds) * time.Second

	var (
		key    string
		source interfaces.MarketDataSource
	)
	switch cfg.Prices.Provider {
	case "mock":
		return NewMockMarketDataAllListed(), nil

	case "yahoo":
		key = ProviderYahoo
		source = NewYahooClient(cfg.Prices.YahooBaseURL, timeout)

	case "alpaca":
		apiKey, apiSecret, err := cfg.AlpacaCredentials()
		if err != nil {
			return nil, err
		}
		key = ProviderAlpaca
		source = NewAlpacaClient(apiKey, apiSecret, cfg.Prices.AlpacaBaseURL)

	default:
		return nil, fmt.Errorf("unknown price provider: %s (valid options: yahoo, alpaca, mock)", cfg.Prices.Provider)
	}

	limiter := NewMultiRateLimiter()
	limiter.AddLimiter(key, cfg.Prices.RatePerSecond)

	var cache *Cache
	if cfg.Cache.Enabled {
		c, err := NewCache(cfg.Cache.Dir, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	return NewMarketData(key, source, cache, limiter), nil
}

// CreateFilingsSource builds the rate-limited filings API client.
func CreateFilingsSource(cfg *store.Config, apiKey string) interfaces.FilingsSource {
	client := NewSECClient(
		cfg.Filings.BaseURL,
		apiKey,
		cfg.Filings.AuthMode,
		time.Duration(cfg.Filings.TimeoutSeconds)*time.Second,
	)

	limiter := NewMultiRateLimiter()
	limiter.AddLimiter(ProviderSEC, cfg.Filings.RatePerSecond)

	return NewRateLimitedFilings(client, limiter)
}
