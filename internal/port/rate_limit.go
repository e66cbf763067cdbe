package port

import (
	"context"
	"time"
)

// CounterStore counts hits per key inside a fixed window that starts on the first hit.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	Reset(ctx context.Context, key string) error
}

// TokenLedger remembers consumed single-use tokens until they expire.
type TokenLedger interface {
	// Consume marks the token as used. It returns false if it was already consumed.
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}
