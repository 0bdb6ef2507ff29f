package api

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimiter throttles outgoing requests per endpoint.
type rateLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{rps: rps, burst: burst}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

// wait blocks until key may send another request. A nil limiter or a
// non-positive rate disables throttling.
func (l *rateLimiter) wait(ctx context.Context, key string) error {
	if l == nil || l.rps <= 0 {
		return nil
	}
	return l.getLimiter(key).Wait(ctx)
}
