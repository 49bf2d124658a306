package interfaces

import (
	"context"

	"insider-momentum/internal/types"
)

// FilingsSource runs searches against the filings API.
type FilingsSource interface {
	// Search posts a query to the form's endpoint and returns the raw response body.
	// A non-2xx response is returned as an error.
	Search(ctx context.Context, form types.FilingForm, query string, size int) ([]byte, error)
}

// PriceHistorySource returns ascending closing prices for a ticker.
// An empty slice with a nil error means no data in the window.
type PriceHistorySource interface {
	GetCloses(ctx context.Context, q types.PriceQuery) ([]types.PricePoint, error)
}

// ListingChecker reports whether a ticker currently has a market price.
type ListingChecker interface {
	IsListed(ctx context.Context, ticker string) (bool, error)
}

// MarketDataSource is a price provider that can also answer listing checks.
type MarketDataSource interface {
	PriceHistorySource
	ListingChecker
}

// TradeFetcher fetches and flattens insider trades for a query.
type TradeFetcher interface {
	FetchTrades(ctx context.Context, query string, size int) []types.TransactionRecord
}

// MomentumAnalyzer enriches records with their post-trade return.
type MomentumAnalyzer interface {
	// Analyze returns exactly one result per record, in input order.
	Analyze(ctx context.Context, records []types.TransactionRecord) []types.MomentumResult
}
