package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

type pgUserRepository struct {
	db *PostgresDB
}

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (account_id, created_at) VALUES ($1, $2)`

	if _, err := r.db.Pool.Exec(ctx, query, user.AccountID, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgUserRepository) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	query := `SELECT account_id, created_at FROM users WHERE account_id = $1`

	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx, query, accountID).Scan(&user.AccountID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
