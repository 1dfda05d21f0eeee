// Package ratelimit provides fixed-window request counters keyed by client.
//
// A window starts on a wall-clock boundary (now truncated to the window
// length) and every counter resets when the next window begins. Two
// implementations share the ports.RateLimiter interface: MemoryLimiter keeps
// counters in process, RedisLimiter shares them between instances.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"piadas/src/core/ports"
)

// Option configures a limiter.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func decide(limit, count int, windowStart time.Time, window time.Duration) ports.RateLimitDecision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateLimitDecision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(window),
	}
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

// MemoryLimiter counts requests per key in process memory. Counters are not
// persisted across restarts.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	current  time.Time
	counters map[string]int
}

func NewMemoryLimiter(limit int, window time.Duration, opts ...Option) *MemoryLimiter {
	o := buildOptions(opts)
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      o.now,
		counters: make(map[string]int),
	}
}

// Allow counts one request for key in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (ports.RateLimitDecision, error) {
	start := l.now().Truncate(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// all counters belong to one window, so a new window drops them at once
	if !start.Equal(l.current) {
		l.current = start
		clear(l.counters)
	}
	l.counters[key]++

	return decide(l.limit, l.counters[key], start, l.window), nil
}
