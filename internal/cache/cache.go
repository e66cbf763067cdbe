package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client redis.UniversalClient
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// NewRedisClient returns the client shared by the cache, rate limiter and token ledger.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// Get returns nil, nil on a cache miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, getCacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set stores data for ttl. Failures are only logged: the cache is never required.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	logger.Debugf(ctx, "creating cache entry %q, valid for %s...", key, ttl)

	if err := c.client.Set(ctx, getCacheKey(key), data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set failed for %q: %v", key, err)
	}
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, getCacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(key string) string {
	return "cache:" + key
}
