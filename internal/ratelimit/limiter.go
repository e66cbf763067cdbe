package ratelimit

import (
	"context"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// Result describes one rate limit decision.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter allows Max hits per key inside Window.
type Limiter struct {
	store  port.CounterStore
	name   string
	max    int64
	window time.Duration
}

func NewLimiter(store port.CounterStore, name string, max int64, window time.Duration) *Limiter {
	return &Limiter{store: store, name: name, max: max, window: window}
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Incr(ctx, l.name+":"+key, l.window)
	if err != nil {
		return Result{}, err
	}
	if count > l.max {
		return Result{Allowed: false, RetryAfter: ttl}, nil
	}
	return Result{Allowed: true, Remaining: l.max - count}, nil
}

// Reset forgets the hits of key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, l.name+":"+key)
}
