// Package ratelimit implements a keyed token bucket used to throttle operator endpoints.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter manages one token bucket per key.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// Config holds rate limiter configuration.
type Config struct {
	// PerMinute is the sustained number of events allowed per key. Zero or less disables limiting.
	PerMinute int
	Burst     int
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	r := rate.Inf
	if cfg.PerMinute > 0 {
		r = rate.Every(time.Minute / time.Duration(cfg.PerMinute))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether an event for key may happen now. When it may not, the returned duration
// says how long until it could.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	now := l.now()
	res := limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}
