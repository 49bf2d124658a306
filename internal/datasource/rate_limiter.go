package datasource

import (
	"context"
	"sync"
	"time"
)

// Provider keys for rate limiting.
const (
	ProviderSEC    = "SECAPI"
	ProviderYahoo  = "YAHOO"
	ProviderAlpaca = "ALPACA"
)

// RateLimiter is a token bucket that refills one token every refillEvery.
type RateLimiter struct {
	mu          sync.Mutex
	tokens      int
	capacity    int
	refillEvery time.Duration
	lastRefill  time.Time
}

// NewRateLimiter allows perSecond requests per second with bursts up to perSecond.
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &RateLimiter{
		tokens:      perSecond,
		capacity:    perSecond,
		refillEvery: time.Second / time.Duration(perSecond),
		lastRefill:  time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := rl.reserve()
		if delay == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// reserve takes a token and returns 0, or returns how long until the next refill.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if refill := int(now.Sub(rl.lastRefill) / rl.refillEvery); refill > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+refill)
		rl.lastRefill = rl.lastRefill.Add(time.Duration(refill) * rl.refillEvery)
	}

	if rl.tokens > 0 {
		rl.tokens--
		return 0
	}
	return rl.refillEvery - now.Sub(rl.lastRefill)
}

// MultiRateLimiter keeps one bucket per provider.
type MultiRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*RateLimiter
}

func NewMultiRateLimiter() *MultiRateLimiter {
	return &MultiRateLimiter{
		limiters: make(map[string]*RateLimiter),
	}
}

func (m *MultiRateLimiter) AddLimiter(provider string, perSecond int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[provider] = NewRateLimiter(perSecond)
}

// Wait waits on the provider's bucket. Unknown providers are not limited.
func (m *MultiRateLimiter) Wait(ctx context.Context, provider string) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	limiter, ok := m.limiters[provider]
	m.mu.RUnlock()

	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
