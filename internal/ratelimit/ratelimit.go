// Package ratelimit implements a per-key sliding-window request limit
// on top of the cache abstraction. The window state is per-instance and
// non-durable: a restart resets every counter. Best-effort by design,
// never a security guarantee.
package ratelimit

import (
	"time"

	"gearguessr/internal/cache"
)

type Limiter struct {
	store  cache.Cache
	window time.Duration
	limit  int
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock injects the limiter's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a Limiter allowing limit requests per key per window.
func New(store cache.Cache, window time.Duration, limit int, opts ...Option) *Limiter {
	l := &Limiter{store: store, window: window, limit: limit, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request for key and reports whether it fits inside
// the window. Timestamps older than the window are dropped on each
// call, so the window slides rather than stepping.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	var stamps []time.Time
	cache.GetJSON(l.store, cacheKey(key), &stamps)

	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		// Still persist the pruned window so stale entries do not pin
		// the key at the limit forever.
		_ = cache.SetJSON(l.store, cacheKey(key), kept, l.window)
		return false
	}

	kept = append(kept, now)
	_ = cache.SetJSON(l.store, cacheKey(key), kept, l.window)
	return true
}

func cacheKey(key string) string {
	return "ratelimit:" + key
}
