package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares fixed-window counters between API instances.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// compile-time checks
var (
	_ port.CounterStore = (*RedisStore)(nil)
	_ port.TokenLedger  = (*RedisLedger)(nil)
)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

// incrScript starts the window on the first hit: the expiry is only set when the
// counter is created.
var incrScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {c, redis.call('PTTL', KEYS[1])}
`)

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := incrScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("redis incr failed: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("redis incr returned %d values", len(res))
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// RedisLedger records consumed upload tokens with SETNX so a token is accepted once
// across every API instance.
type RedisLedger struct {
	client redis.UniversalClient
}

func NewRedisLedger(client redis.UniversalClient) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, "upload-token:"+tokenID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}
