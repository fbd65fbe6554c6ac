package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimdocs/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("overrides apply on top of the URL", func(t *testing.T) {
		opts, err := Options(config.RedisConfig{
			URL:          "redis://:secret@cache:6380/2",
			PoolSize:     7,
			MinIdleConns: 1,
			DialTimeout:  2 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 1, opts.MinIdleConns)
		assert.Equal(t, 2*time.Second, opts.DialTimeout)
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		const url = "redis://localhost:6379"
		want, err := redis.ParseURL(url)
		require.NoError(t, err)
		opts, err := Options(config.RedisConfig{URL: url})
		require.NoError(t, err)
		assert.Equal(t, want.PoolSize, opts.PoolSize)
		assert.Equal(t, want.ReadTimeout, opts.ReadTimeout)
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := Options(config.RedisConfig{URL: "http://localhost"})
		require.Error(t, err)
	})
}

func TestNewDisabled(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}
