package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoLinkRepository struct {
	coll *mongo.Collection
}

func (r *mongoLinkRepository) Create(ctx context.Context, link *models.Link) error {
	if _, err := r.coll.InsertOne(ctx, link); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

func (r *mongoLinkRepository) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	return r.findOne(ctx, bson.M{"short_id": shortID})
}

func (r *mongoLinkRepository) GetOwned(ctx context.Context, shortID, accountID string) (*models.Link, error) {
	return r.findOne(ctx, bson.M{"short_id": shortID, "account_id": accountID})
}

func (r *mongoLinkRepository) findOne(ctx context.Context, filter bson.M) (*models.Link, error) {
	var link models.Link
	if err := r.coll.FindOne(ctx, filter).Decode(&link); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}

func (r *mongoLinkRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Link, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer cursor.Close(ctx)

	links := []models.Link{}
	if err := cursor.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("failed to decode links: %w", err)
	}
	return links, nil
}

func (r *mongoLinkRepository) UpdateTarget(ctx context.Context, shortID, accountID, targetURL string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"short_id": shortID, "account_id": accountID},
		bson.M{"$set": bson.M{"target_url": targetURL}},
	)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *mongoLinkRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}

func (r *mongoLinkRepository) delete(ctx context.Context, shortID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"short_id": shortID})
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrLinkNotFound
	}
	return nil
}

type pgLinkRepository struct {
	db *PostgresDB
}

func (r *pgLinkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (short_id, target_url, account_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		link.ShortID,
		link.TargetURL,
		link.AccountID,
		link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *pgLinkRepository) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	query := `
		SELECT short_id, target_url, account_id, created_at
		FROM links
		WHERE short_id = $1
	`
	return r.queryOne(ctx, query, shortID)
}

func (r *pgLinkRepository) GetOwned(ctx context.Context, shortID, accountID string) (*models.Link, error) {
	query := `
		SELECT short_id, target_url, account_id, created_at
		FROM links
		WHERE short_id = $1 AND account_id = $2
	`
	return r.queryOne(ctx, query, shortID, accountID)
}

func (r *pgLinkRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Link, error) {
	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&link.ShortID,
		&link.TargetURL,
		&link.AccountID,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (r *pgLinkRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Link, error) {
	query := `
		SELECT short_id, target_url, account_id, created_at
		FROM links
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []models.Link{}
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(&link.ShortID, &link.TargetURL, &link.AccountID, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

func (r *pgLinkRepository) UpdateTarget(ctx context.Context, shortID, accountID, targetURL string) error {
	query := `UPDATE links SET target_url = $3 WHERE short_id = $1 AND account_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, shortID, accountID, targetURL)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

func (r *pgLinkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM links`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}
