package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/cache"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"

	"github.com/hibiken/asynq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

// RedisContainerInfo is the Redis behind the listing cache, the rate limit counters
// and the sweep queue.
type RedisContainerInfo struct {
	Addr string
	// Client is built the way cmd/api builds its own.
	Client  *redis.Client
	Cleanup func()
}

func StartRedisContainer() (*RedisContainerInfo, error) {
	const (
		image        = "redis"
		tag          = "7-alpine"
		internalPort = "6379/tcp"
	)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 30 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		// nothing to persist between runs
		Cmd: []string{"redis-server", "--save", "", "--appendonly", "no"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start redis container: %w", err)
	}

	addr := fmt.Sprintf("localhost:%s", resource.GetPort(internalPort))
	client := cache.NewRedisClient(addr, "")
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("redis did not become ready: %w", err)
	}
	logger.Infof(context.Background(), "✅  Redis ready on %s", addr)

	return &RedisContainerInfo{
		Addr:   addr,
		Client: client,
		Cleanup: func() {
			_ = client.Close()
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge redis container: %s", err)
			}
		},
	}, nil
}

// QueueOpt connects asynq clients and servers to the container.
func (ci *RedisContainerInfo) QueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: ci.Addr}
}

// Reset drops every key, pending sweep tasks included, so that a test does not
// inherit work queued by the previous one.
func (ci *RedisContainerInfo) Reset(ctx context.Context) error {
	return ci.Client.FlushDB(ctx).Err()
}
