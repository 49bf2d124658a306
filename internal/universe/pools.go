package universe

import (
	"context"
	"fmt"
	"strings"
)

// Candidate pools.
const (
	PoolLarge  = "large"
	PoolSmall  = "small"
	PoolSP500  = "sp500"
	PoolStatic = "static"
)

var largeCaps = []string{
	"AAPL", "MSFT", "AMZN", "GOOGL", "BRK.B", "NVDA", "META", "TSLA", "JPM", "V",
	"UNH", "HD", "PG", "MA", "DIS", "NFLX", "PFE", "BAC", "VZ", "KO",
	"NKE", "CRM", "ORCL", "IBM", "WMT", "COST", "ADBE", "CSCO", "XOM", "CVX",
	"PEP", "ABT", "TMO", "MDT", "ACN", "LLY", "TXN", "NEE", "AVGO", "SAP",
}

var smallCaps = []string{
	"AAXN", "CZR", "CRMT", "GLBE", "HZN", "IDEX", "LLEX", "MNST", "NWSA", "OTEX",
	"PNRG", "QDEL", "RGEN", "SAIC", "TALO", "UBSI", "VCRA", "WOR", "XYL", "ZION",
}

// LargeCaps returns the mega-cap candidate list.
func LargeCaps() []string {
	return append([]string(nil), largeCaps...)
}

// SmallCaps returns the small-cap candidate list.
func SmallCaps() []string {
	return append([]string(nil), smallCaps...)
}

// ConstituentSource lists index members.
type ConstituentSource interface {
	Constituents(ctx context.Context) ([]string, error)
}

// Candidates returns the tickers of pool. static is used for PoolStatic and
// sp500 is consulted only for PoolSP500.
func Candidates(ctx context.Context, pool string, static []string, sp500 ConstituentSource) ([]string, error) {
	switch pool {
	case PoolLarge:
		return LargeCaps(), nil
	case PoolSmall:
		return SmallCaps(), nil
	case PoolStatic:
		out := make([]string, 0, len(static))
		for _, t := range static {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				out = append(out, t)
			}
		}
		return out, nil
	case PoolSP500:
		if sp500 == nil {
			return nil, fmt.Errorf("no constituent source configured for pool %s", pool)
		}
		return sp500.Constituents(ctx)
	default:
		return nil, fmt.Errorf("unknown pool: %s (valid options: large, small, sp500, static)", pool)
	}
}
