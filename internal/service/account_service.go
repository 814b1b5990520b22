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

// сколько раз перегенерировать идентификатор при конфликте уникального индекса
const maxGenerateAttempts = 10

// AccountService регистрация и вход по account_id
type AccountService interface {
	Register(ctx context.Context) (string, error)
	Login(ctx context.Context, accountID string) error
	Exists(ctx context.Context, accountID string) (bool, error)
}

type accountService struct {
	users      repository.UserRepository
	logger     *zap.Logger
	generateID func() (string, error)
}

func NewAccountService(users repository.UserRepository, logger *zap.Logger) AccountService {
	return &accountService{
		users:      users,
		logger:     logger,
		generateID: GenerateAccountID,
	}
}

// Register создаёт пользователя со свежим account_id. Уникальность
// обеспечивает индекс хранилища: при ErrDuplicate id генерируется заново.
func (s *accountService) Register(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		accountID, err := s.generateID()
		if err != nil {
			return "", fmt.Errorf("failed to generate account id: %w", err)
		}

		err = s.users.Create(ctx, &models.User{
			AccountID: accountID,
			CreatedAt: time.Now().UTC(),
		})
		if err == nil {
			metrics.AccountsRegistered.Inc()
			return accountID, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", err
		}

		s.logger.Debug("account id collision, retrying",
			zap.String("account_id", accountID),
			zap.Int("attempt", attempt),
		)
	}

	return "", ErrIDSpaceBusy
}

func (s *accountService) Login(ctx context.Context, accountID string) error {
	ok, err := s.Exists(ctx, accountID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLoginFailed
	}
	return nil
}

func (s *accountService) Exists(ctx context.Context, accountID string) (bool, error) {
	if accountID == "" {
		return false, nil
	}

	_, err := s.users.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// requireAccount ErrInvalidAccount, если пользователя с таким id нет
func requireAccount(ctx context.Context, users repository.UserRepository, accountID string) error {
	if accountID == "" {
		return ErrInvalidAccount
	}
	if _, err := users.GetByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidAccount
		}
		return err
	}
	return nil
}
