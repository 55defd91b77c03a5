// Package ratelimit provides a per-key request limiter for the HTTP surface.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerKey hands out one token-bucket limiter per key (usually the client IP).
// The bucket holds a full minute of requests, so a client can burst up to its
// per-minute allowance and then refills steadily.
type PerKey struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
}

func NewPerKey(perMinute int) *PerKey {
	return &PerKey{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

// Allow reports whether the key may make a request now. A non-positive
// per-minute setting disables limiting.
func (p *PerKey) Allow(key string) bool {
	if p.perMinute <= 0 {
		return true
	}

	return p.limiterFor(key).Allow()
}

func (p *PerKey) limiterFor(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, ok := p.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.perMinute)), p.perMinute)
		p.limiters[key] = limiter
	}

	return limiter
}
