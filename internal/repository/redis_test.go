package repository

import (
	"testing"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions_Fields(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		Host:     "cache",
		Port:     "6380",
		Password: "secret",
		DB:       3,
		PoolSize: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, redisMinIdleConns, opts.MinIdleConns)
}

func TestRedisOptions_URL(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:      "redis://:pw@redis.internal:6379/5",
		Host:     "ignored",
		Password: "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 5, opts.DB)
}

func TestRedisOptions_InvalidURL(t *testing.T) {
	_, err := redisOptions(config.RedisConfig{URL: "http://cache:6379"})
	assert.Error(t, err)
}
