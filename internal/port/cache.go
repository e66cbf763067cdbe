package port

import (
	"context"
	"time"
)

// Cache stores rendered JSON payloads for a limited time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string) error
}
