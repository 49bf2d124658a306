package momentum

import (
	"context"
	"errors"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/types"
)

var errNonPositiveClose = errors.New("first close is not positive")

// Analyzer computes the realized return after each insider trade.
type Analyzer struct {
	prices interfaces.PriceHistorySource
	window Window
}

func NewAnalyzer(prices interfaces.PriceHistorySource, window Window) *Analyzer {
	return &Analyzer{prices: prices, window: window}
}

func (a *Analyzer) Window() Window {
	return a.window
}

// Analyze returns one result per record in input order. Records without usable
// price data come back with null return, realized time and elapsed.
func (a *Analyzer) Analyze(ctx context.Context, records []types.TransactionRecord) []types.MomentumResult {
	results := make([]types.MomentumResult, 0, len(records))
	for _, rec := range records {
		results = append(results, a.analyzeRecord(ctx, rec))
	}
	return results
}

func (a *Analyzer) analyzeRecord(ctx context.Context, rec types.TransactionRecord) types.MomentumResult {
	result := types.MomentumResult{
		TransactionRecord: rec,
		ElapsedUnit:       a.window.Unit.String(),
	}

	if !rec.TransactionDate.Valid {
		logger.Unavailable(ctx, rec.Ticker, "", "missing transaction date")
		return result
	}
	start, err := ParseTransactionTime(rec.TransactionDate.String)
	if err != nil {
		logger.Unavailable(ctx, rec.Ticker, rec.TransactionDate.String, "unparseable transaction date", "error", err)
		return result
	}
	if a.window.Unit == Days {
		start = TruncateToDate(start)
	}

	closes, err := a.prices.GetCloses(ctx, types.PriceQuery{
		Ticker:   rec.Ticker,
		Start:    start,
		End:      a.window.End(start),
		Interval: a.window.Unit.Interval(),
	})
	if err != nil {
		logger.Unavailable(ctx, rec.Ticker, rec.TransactionDate.String, "price history error", "error", err)
		return result
	}
	if len(closes) == 0 {
		logger.Unavailable(ctx, rec.Ticker, rec.TransactionDate.String, "no closes in window", "window", a.window.String())
		return result
	}

	ret, err := realizedReturn(closes[0].Close, closes[len(closes)-1].Close)
	if err != nil {
		logger.Unavailable(ctx, rec.Ticker, rec.TransactionDate.String, err.Error())
		return result
	}

	realized := Naive(closes[len(closes)-1].Time)
	var elapsed float64
	if a.window.Unit == Days {
		realized = TruncateToDate(realized)
		elapsed = float64(int(realized.Sub(start).Hours() / 24))
	} else {
		elapsed = realized.Sub(start).Hours()
	}

	result.Return = null.FloatFrom(ret)
	result.RealizedAt = null.TimeFrom(realized)
	result.Elapsed = null.FloatFrom(elapsed)
	return result
}

// realizedReturn is (last - first) / first.
func realizedReturn(first, last float64) (float64, error) {
	f := decimal.NewFromFloat(first)
	if !f.IsPositive() {
		return 0, errNonPositiveClose
	}
	return decimal.NewFromFloat(last).Sub(f).Div(f).InexactFloat64(), nil
}
