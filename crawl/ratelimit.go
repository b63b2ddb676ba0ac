package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/docai/docai"
	"golang.org/x/time/rate"
)

var _ docai.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so concurrent requests to different
// domains proceed independently while requests within a domain are paced.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second per domain with a burst of 1 (no bursting).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// NewDomainLimiterDelay creates a DomainLimiter from a politeness delay
// between requests, matching the scraper's delay_seconds setting.
// A non-positive delay falls back to 1 request per second.
func NewDomainLimiterDelay(delay time.Duration) *DomainLimiter {
	if delay <= 0 {
		return NewDomainLimiter(1.0)
	}
	return NewDomainLimiter(float64(time.Second) / float64(delay))
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
