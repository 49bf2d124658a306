package universe

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
)

// ErrEmptyUniverse means no candidate passed the listing check.
var ErrEmptyUniverse = errors.New("no listed tickers in universe")

// Sampler draws listed tickers from a candidate pool.
type Sampler struct {
	checker interfaces.ListingChecker
	rng     *rand.Rand
}

// NewSampler uses seed for the draw; seed 0 seeds from the clock.
func NewSampler(checker interfaces.ListingChecker, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		checker: checker,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Sample dedupes candidates, keeps the listed ones and draws n without
// replacement. When fewer than n are listed the whole listed subset is returned.
func (s *Sampler) Sample(ctx context.Context, candidates []string, n int) ([]string, error) {
	listed := s.FilterListed(ctx, Dedupe(candidates))
	if len(listed) == 0 {
		return nil, ErrEmptyUniverse
	}
	if len(listed) < n {
		logger.Info(ctx, "Fewer listed tickers than requested, sampling all",
			"listed", len(listed), "requested", n)
		return listed, nil
	}

	picked := make([]string, 0, n)
	for _, i := range s.rng.Perm(len(listed))[:n] {
		picked = append(picked, listed[i])
	}
	return picked, nil
}

// FilterListed keeps candidates the checker reports listed. Checker errors
// count as not listed.
func (s *Sampler) FilterListed(ctx context.Context, candidates []string) []string {
	listed := make([]string, 0, len(candidates))
	for _, t := range candidates {
		ok, err := s.checker.IsListed(ctx, t)
		if err != nil {
			logger.Warn(ctx, "Listing check failed, skipping ticker", "ticker", t, "error", err)
			continue
		}
		if ok {
			listed = append(listed, t)
		} else {
			logger.Debug(ctx, "Ticker not listed", "ticker", t)
		}
	}
	return listed
}

// Dedupe removes repeats, keeping first occurrences in order.
func Dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
