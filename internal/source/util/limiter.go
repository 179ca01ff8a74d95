package util

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// hosts with no parsable hostname share this bucket
const fallbackHost = "?"

// HostLimiter paces requests per hostname (api.lever.co,
// boards-api.greenhouse.io, etc) so no vendor sees a request burst while
// sources for different vendors proceed independently.
type HostLimiter struct {
	rate  rate.Limit
	burst int

	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		rate:    rate.Limit(reqPerSec),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may issue a request, or ctx is done.
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	if host == "" {
		host = fallbackHost
	}

	hl.mu.RLock()
	lim := hl.buckets[host]
	hl.mu.RUnlock()

	if lim == nil {
		hl.mu.Lock()
		if lim = hl.buckets[host]; lim == nil {
			lim = rate.NewLimiter(hl.rate, hl.burst)
			hl.buckets[host] = lim
		}
		hl.mu.Unlock()
	}
	return lim.Wait(ctx)
}

// WaitURL is Wait keyed on the URL's hostname.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return hl.Wait(ctx, fallbackHost)
	}
	return hl.Wait(ctx, u.Hostname())
}
