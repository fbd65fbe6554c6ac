//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"claimdocs/internal/platform/config"
	platformredis "claimdocs/internal/platform/redis"
)

// RedisContainer backs the catalog cache, export lock and notification tests.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URL       string
	Client    *redis.Client
}

// NewRedisContainer starts Redis and connects through the same constructor the
// binaries use.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}
	client, err := platformredis.New(ctx, config.RedisConfig{URL: url, PoolSize: 4})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect redis: %v", err)
	}
	return &RedisContainer{Container: container, URL: url, Client: client.Client}
}

// FlushAll clears every key so suites sharing the container stay isolated.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
