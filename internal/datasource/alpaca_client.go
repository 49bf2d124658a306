package datasource

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"insider-momentum/internal/types"
)

// alpacaMarketData is the subset of *marketdata.Client used here.
type alpacaMarketData interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

// AlpacaClient reads bars and latest trades from Alpaca market data.
type AlpacaClient struct {
	client alpacaMarketData
}

// NewAlpacaClient creates a market data client. baseURL may be empty.
func NewAlpacaClient(apiKey, apiSecret, baseURL string) *AlpacaClient {
	return &AlpacaClient{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
	}
}

// GetCloses returns bar closes in [q.Start, q.End) as UTC timestamps.
func (a *AlpacaClient) GetCloses(ctx context.Context, q types.PriceQuery) ([]types.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeframe := marketdata.OneDay
	if q.Interval == types.IntervalHour {
		timeframe = marketdata.OneHour
	}

	bars, err := a.client.GetBars(q.Ticker, marketdata.GetBarsRequest{
		TimeFrame: timeframe,
		Start:     q.Start,
		End:       q.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get Alpaca bars for %s: %w", q.Ticker, err)
	}

	points := make([]types.PricePoint, 0, len(bars))
	for _, bar := range bars {
		t := bar.Timestamp.UTC()
		if t.Before(q.Start) || !t.Before(q.End) {
			continue
		}
		points = append(points, types.PricePoint{Time: t, Close: bar.Close})
	}
	return points, nil
}

// IsListed reports whether Alpaca has a latest trade with a positive price.
func (a *AlpacaClient) IsListed(ctx context.Context, ticker string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	trade, err := a.client.GetLatestTrade(ticker, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to get latest trade for %s: %w", ticker, err)
	}
	return trade != nil && trade.Price > 0, nil
}
