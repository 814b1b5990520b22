package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresDB struct {
	Pool *pgxpool.Pool
}

// PostgresStore те же три коллекции в виде таблиц
type PostgresStore struct {
	db        *PostgresDB
	users     *pgUserRepository
	links     *pgLinkRepository
	analytics *pgAnalyticsRepository
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	account_id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS links (
	short_id   TEXT PRIMARY KEY,
	target_url TEXT NOT NULL,
	account_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS links_account_id_idx ON links (account_id);

CREATE TABLE IF NOT EXISTS analytics (
	id              BIGSERIAL PRIMARY KEY,
	link_id         TEXT NOT NULL,
	account_id      TEXT NOT NULL,
	ip              TEXT NOT NULL,
	user_agent      TEXT NOT NULL,
	platform        TEXT NOT NULL,
	browser         TEXT NOT NULL,
	version         TEXT NOT NULL,
	language        TEXT NOT NULL,
	referrer        TEXT NOT NULL,
	timestamp       TIMESTAMPTZ NOT NULL,
	remote_port     TEXT NOT NULL,
	accept          TEXT NOT NULL,
	accept_language TEXT NOT NULL,
	accept_encoding TEXT NOT NULL,
	screen_size     TEXT NOT NULL,
	window_size     TEXT NOT NULL,
	country         TEXT NOT NULL,
	isp             TEXT NOT NULL,
	ip_version      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS analytics_link_id_idx ON analytics (link_id);
CREATE INDEX IF NOT EXISTS analytics_account_id_idx ON analytics (account_id);
`

func NewPostgresDB(ctx context.Context, cfg config.StoreConfig) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	// Настрока пула соединений
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверка подключения
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

func NewPostgresStore(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	db, err := NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{
		db:        db,
		users:     &pgUserRepository{db: db},
		links:     &pgLinkRepository{db: db},
		analytics: &pgAnalyticsRepository{db: db},
	}, nil
}

func (db *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	db.Pool.Close()
}

func (s *PostgresStore) Users() UserRepository { return s.users }
func (s *PostgresStore) Links() LinkRepository { return s.links }
func (s *PostgresStore) Analytics() AnalyticsRepository { return s.analytics }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	s.db.Close()
	return nil
}

// RemoveLink удаляет ссылку и аналитику в одной транзакции
func (s *PostgresStore) RemoveLink(ctx context.Context, shortID string) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM links WHERE short_id = $1`, shortID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM analytics WHERE link_id = $1`, shortID); err != nil {
		return fmt.Errorf("failed to delete analytics: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit link removal: %w", err)
	}
	return nil
}

// Проверка на уникальность
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
