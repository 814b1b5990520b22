package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const statsKey = "stats:dashboard"

type CacheRepository interface {
	GetLink(ctx context.Context, shortID string) (*models.Link, error)
	SetLink(ctx context.Context, link *models.Link, ttl time.Duration) error
	DeleteLink(ctx context.Context, shortID string) error

	GetStats(ctx context.Context) (*models.Stats, error)
	SetStats(ctx context.Context, stats *models.Stats, ttl time.Duration) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) GetLink(ctx context.Context, shortID string) (*models.Link, error) {
	var link models.Link
	if err := r.get(ctx, r.linkKey(shortID), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *cacheRepository) SetLink(ctx context.Context, link *models.Link, ttl time.Duration) error {
	return r.set(ctx, r.linkKey(link.ShortID), link, ttl)
}

func (r *cacheRepository) DeleteLink(ctx context.Context, shortID string) error {
	return r.redis.Client.Del(ctx, r.linkKey(shortID)).Err()
}

func (r *cacheRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := r.get(ctx, statsKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *cacheRepository) SetStats(ctx context.Context, stats *models.Stats, ttl time.Duration) error {
	return r.set(ctx, statsKey, stats, ttl)
}

func (r *cacheRepository) get(ctx context.Context, key string, dst any) error {
	data, err := r.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (r *cacheRepository) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	return r.redis.Client.Set(ctx, key, data, ttl).Err()
}

func (r *cacheRepository) linkKey(shortID string) string {
	return "link:" + shortID
}

// noopCache используется, когда Redis не настроен
type noopCache struct{}

func NewNoopCache() CacheRepository {
	return noopCache{}
}

func (noopCache) GetLink(context.Context, string) (*models.Link, error) { return nil, ErrCacheMiss }
func (noopCache) SetLink(context.Context, *models.Link, time.Duration) error { return nil }
func (noopCache) DeleteLink(context.Context, string) error { return nil }
func (noopCache) GetStats(context.Context) (*models.Stats, error) { return nil, ErrCacheMiss }
func (noopCache) SetStats(context.Context, *models.Stats, time.Duration) error { return nil }
