package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	redisPingTimeout  = 5 * time.Second
	redisMinIdleConns = 10
)

// RedisDB клиент кэша ссылок и статистики
type RedisDB struct {
	Client *redis.Client
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(cfg config.RedisConfig) (*RedisDB, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return &RedisDB{Client: client}, nil
}

// redisOptions собирает опции клиента; REDIS_URL задаёт адрес, пароль и базу
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = redisMinIdleConns
	return opts, nil
}

func (db *RedisDB) Close() error {
	return db.Client.Close()
}
