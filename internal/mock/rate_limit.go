package mock

import (
	"context"
	"sync"
	"time"
)

// TokenLedger implements port.TokenLedger for tests.
type TokenLedger struct {
	mu       sync.Mutex
	Consumed map[string]time.Duration
	Err      error
}

func (l *TokenLedger) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if l.Err != nil {
		return false, l.Err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Consumed == nil {
		l.Consumed = map[string]time.Duration{}
	}
	if _, seen := l.Consumed[tokenID]; seen {
		return false, nil
	}
	l.Consumed[tokenID] = ttl
	return true, nil
}

// CounterStore implements port.CounterStore for tests. Windows never expire on their own.
type CounterStore struct {
	mu     sync.Mutex
	Counts map[string]int64
	TTL    time.Duration
	Err    error

	ResetKeys []string
}

func (c *CounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if c.Err != nil {
		return 0, 0, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Counts == nil {
		c.Counts = map[string]int64{}
	}
	c.Counts[key]++
	ttl := c.TTL
	if ttl == 0 {
		ttl = window
	}
	return c.Counts[key], ttl, nil
}

func (c *CounterStore) Reset(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Counts, key)
	c.ResetKeys = append(c.ResetKeys, key)
	return c.Err
}
