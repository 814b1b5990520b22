package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/SergeiKhy/ulink-shortener/internal/models"
)

// Имена коллекций (и таблиц для postgres)
const (
	UsersCollection     = "users"
	LinksCollection     = "links"
	AnalyticsCollection = "analytics"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLinkNotFound = errors.New("link not found")
	ErrDuplicate    = errors.New("duplicate key")

	// ErrCascadeIncomplete ссылка удалена, но аналитика по ней осталась
	ErrCascadeIncomplete = errors.New("link removed, analytics purge incomplete")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByAccountID(ctx context.Context, accountID string) (*models.User, error)
}

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByShortID(ctx context.Context, shortID string) (*models.Link, error)
	GetOwned(ctx context.Context, shortID, accountID string) (*models.Link, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Link, error)
	UpdateTarget(ctx context.Context, shortID, accountID, targetURL string) error
	Count(ctx context.Context) (int64, error)
}

type AnalyticsRepository interface {
	Record(ctx context.Context, event *models.AnalyticsEvent) error
	ListByAccount(ctx context.Context, accountID string) ([]models.AnalyticsEvent, error)
	ListByLink(ctx context.Context, linkID string) ([]models.AnalyticsEvent, error)
	// DeleteByLink идемпотентна: повторный вызов удаляет 0 записей
	DeleteByLink(ctx context.Context, linkID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	// GroupBy считает события по полю, limit <= 0 без ограничения
	GroupBy(ctx context.Context, field models.StatField, limit int) ([]models.StatItem, error)
}

// Store соединение с хранилищем и репозитории поверх него
type Store interface {
	Users() UserRepository
	Links() LinkRepository
	Analytics() AnalyticsRepository

	// RemoveLink удаляет ссылку и всю её аналитику
	RemoveLink(ctx context.Context, shortID string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open подключается к хранилищу, выбранному схемой URI
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store: %w", err)
	}

	switch kind {
	case config.StorePostgres:
		return NewPostgresStore(ctx, cfg)
	default:
		return NewMongoStore(ctx, cfg)
	}
}

func validField(field models.StatField) bool {
	switch field {
	case models.StatIPVersion, models.StatPlatform, models.StatCountry, models.StatISP:
		return true
	}
	return false
}
