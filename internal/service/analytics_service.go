package service

import (
	"context"
	"errors"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultStatsTTL = 30 * time.Second
	topStatsLimit   = 10
)

// AnalyticsService выборки аналитики по аккаунту и агрегаты для дашборда
type AnalyticsService interface {
	AccountAnalytics(ctx context.Context, accountID string) (*models.AccountAnalytics, error)
	LinkAnalytics(ctx context.Context, accountID, shortID string) (*models.LinkAnalytics, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

type analyticsService struct {
	store    repository.Store
	cache    repository.CacheRepository
	logger   *zap.Logger
	statsTTL time.Duration
}

func NewAnalyticsService(
	store repository.Store,
	cache repository.CacheRepository,
	logger *zap.Logger,
	statsTTL time.Duration,
) AnalyticsService {
	if statsTTL <= 0 {
		statsTTL = defaultStatsTTL
	}
	return &analyticsService{
		store:    store,
		cache:    cache,
		logger:   logger,
		statsTTL: statsTTL,
	}
}

func (s *analyticsService) AccountAnalytics(ctx context.Context, accountID string) (*models.AccountAnalytics, error) {
	if err := requireAccount(ctx, s.store.Users(), accountID); err != nil {
		return nil, err
	}

	links, err := s.store.Links().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	events, err := s.store.Analytics().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &models.AccountAnalytics{Links: links, Analytics: events}, nil
}

func (s *analyticsService) LinkAnalytics(ctx context.Context, accountID, shortID string) (*models.LinkAnalytics, error) {
	if err := requireAccount(ctx, s.store.Users(), accountID); err != nil {
		return nil, err
	}

	link, err := s.store.Links().GetOwned(ctx, shortID, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	events, err := s.store.Analytics().ListByLink(ctx, shortID)
	if err != nil {
		return nil, err
	}

	return &models.LinkAnalytics{Link: *link, Analytics: events}, nil
}

// Stats общие счётчики и разбивки по ip_version, платформе, стране и
// провайдеру. Результат кэшируется на statsTTL. LoggedIn заполняет вызывающий.
func (s *analyticsService) Stats(ctx context.Context) (*models.Stats, error) {
	if stats, err := s.cache.GetStats(ctx); err == nil {
		return stats, nil
	}

	totalLinks, err := s.store.Links().Count(ctx)
	if err != nil {
		return nil, err
	}

	totalClicks, err := s.store.Analytics().Count(ctx)
	if err != nil {
		return nil, err
	}

	analytics := s.store.Analytics()
	stats := &models.Stats{
		TotalLinks:  totalLinks,
		TotalClicks: totalClicks,
	}

	if stats.ChartData.IPVersions, err = analytics.GroupBy(ctx, models.StatIPVersion, 0); err != nil {
		return nil, err
	}
	if stats.ChartData.OSStats, err = analytics.GroupBy(ctx, models.StatPlatform, topStatsLimit); err != nil {
		return nil, err
	}
	if stats.ChartData.CountryStats, err = analytics.GroupBy(ctx, models.StatCountry, topStatsLimit); err != nil {
		return nil, err
	}
	if stats.ChartData.ISPStats, err = analytics.GroupBy(ctx, models.StatISP, topStatsLimit); err != nil {
		return nil, err
	}

	if err := s.cache.SetStats(ctx, stats, s.statsTTL); err != nil {
		s.logger.Warn("Failed to cache stats", zap.Error(err))
	}

	return stats, nil
}

func (s *analyticsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
