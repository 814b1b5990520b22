package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/metrics"
	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
	"go.uber.org/zap"
)

const defaultLinkTTL = 24 * time.Hour

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	CreateLink(ctx context.Context, accountID, targetURL string) (*models.Link, error)
	GetLink(ctx context.Context, shortID string) (*models.Link, error)
	Visit(ctx context.Context, shortID string, info models.ClientInfo) (*models.Link, error)
	UpdateTarget(ctx context.Context, accountID, shortID, targetURL string) error
	DeleteLink(ctx context.Context, accountID, shortID string) error
}

// linkService реализация сервиса ссылок
type linkService struct {
	store      repository.Store
	cache      repository.CacheRepository
	purger     AnalyticsPurger
	logger     *zap.Logger
	linkTTL    time.Duration
	generateID func() (string, error)
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(
	store repository.Store,
	cache repository.CacheRepository,
	purger AnalyticsPurger,
	logger *zap.Logger,
	linkTTL time.Duration,
) LinkService {
	if linkTTL <= 0 {
		linkTTL = defaultLinkTTL
	}
	return &linkService{
		store:      store,
		cache:      cache,
		purger:     purger,
		logger:     logger,
		linkTTL:    linkTTL,
		generateID: GenerateShortID,
	}
}

// CreateLink проверяет владельца и URL, затем сохраняет ссылку.
// Конфликт short_id по уникальному индексу ведёт к новой генерации.
func (s *linkService) CreateLink(ctx context.Context, accountID, targetURL string) (*models.Link, error) {
	if err := requireAccount(ctx, s.store.Users(), accountID); err != nil {
		return nil, err
	}

	if !IsValidURL(targetURL) {
		return nil, ErrInvalidURL
	}

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		shortID, err := s.generateID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		link := &models.Link{
			ShortID:   shortID,
			TargetURL: targetURL,
			AccountID: accountID,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.Links().Create(ctx, link)
		if err == nil {
			metrics.LinksCreated.Inc()
			if err := s.cache.SetLink(ctx, link, s.linkTTL); err != nil {
				s.logger.Warn("Failed to cache link", zap.String("short_id", shortID), zap.Error(err))
			}
			return link, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}

		s.logger.Debug("short id collision, retrying",
			zap.String("short_id", shortID),
			zap.Int("attempt", attempt),
		)
	}

	return nil, ErrIDSpaceBusy
}

// GetLink получает ссылку по короткому коду (сначала из кэша, затем из хранилища)
func (s *linkService) GetLink(ctx context.Context, shortID string) (*models.Link, error) {
	link, err := s.cache.GetLink(ctx, shortID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("Link cache unavailable", zap.Error(err))
	}

	link, err = s.store.Links().GetByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.SetLink(ctx, link, s.linkTTL); err != nil {
		s.logger.Warn("Failed to cache link", zap.String("short_id", shortID), zap.Error(err))
	}

	return link, nil
}

// Visit находит ссылку и записывает событие перехода. Ошибка записи
// аналитики не мешает редиректу.
func (s *linkService) Visit(ctx context.Context, shortID string, info models.ClientInfo) (*models.Link, error) {
	link, err := s.GetLink(ctx, shortID)
	if err != nil {
		return nil, err
	}

	event := &models.AnalyticsEvent{
		LinkID:     link.ShortID,
		AccountID:  link.AccountID,
		ClientInfo: info,
	}
	if err := s.store.Analytics().Record(ctx, event); err != nil {
		s.logger.Error("Failed to log analytics", zap.String("short_id", shortID), zap.Error(err))
	}

	metrics.Redirects.Inc()
	return link, nil
}

func (s *linkService) UpdateTarget(ctx context.Context, accountID, shortID, targetURL string) error {
	if accountID == "" {
		return ErrNotLoggedIn
	}
	if !IsValidURL(targetURL) {
		return ErrInvalidURL
	}

	if err := s.store.Links().UpdateTarget(ctx, shortID, accountID, targetURL); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.invalidate(ctx, shortID)
	return nil
}

// DeleteLink удаляет ссылку владельца вместе с аналитикой
func (s *linkService) DeleteLink(ctx context.Context, accountID, shortID string) error {
	if accountID == "" {
		return ErrNotLoggedIn
	}

	if _, err := s.store.Links().GetOwned(ctx, shortID, accountID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.store.RemoveLink(ctx, shortID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrLinkNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrCascadeIncomplete):
		s.logger.Warn("Analytics purge deferred", zap.String("short_id", shortID), zap.Error(err))
		if err := s.purger.Enqueue(ctx, shortID); err != nil {
			s.logger.Error("Failed to queue analytics purge", zap.String("short_id", shortID), zap.Error(err))
		}
	default:
		return err
	}

	s.invalidate(ctx, shortID)
	return nil
}

func (s *linkService) invalidate(ctx context.Context, shortID string) {
	if err := s.cache.DeleteLink(ctx, shortID); err != nil {
		s.logger.Warn("Failed to invalidate link cache", zap.String("short_id", shortID), zap.Error(err))
	}
}
