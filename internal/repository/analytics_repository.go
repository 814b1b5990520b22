package repository

import (
	"context"
	"fmt"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoAnalyticsRepository struct {
	coll *mongo.Collection
}

func (r *mongoAnalyticsRepository) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to record analytics: %w", err)
	}
	return nil
}

func (r *mongoAnalyticsRepository) ListByAccount(ctx context.Context, accountID string) ([]models.AnalyticsEvent, error) {
	return r.find(ctx, bson.M{"account_id": accountID})
}

func (r *mongoAnalyticsRepository) ListByLink(ctx context.Context, linkID string) ([]models.AnalyticsEvent, error) {
	return r.find(ctx, bson.M{"link_id": linkID})
}

func (r *mongoAnalyticsRepository) find(ctx context.Context, filter bson.M) ([]models.AnalyticsEvent, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.AnalyticsEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return events, nil
}

func (r *mongoAnalyticsRepository) DeleteByLink(ctx context.Context, linkID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"link_id": linkID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete analytics: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoAnalyticsRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics: %w", err)
	}
	return n, nil
}

func (r *mongoAnalyticsRepository) GroupBy(ctx context.Context, field models.StatField, limit int) ([]models.StatItem, error) {
	if !validField(field) {
		return nil, fmt.Errorf("unsupported stat field %q", field)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + string(field)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	items := []models.StatItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s stats: %w", field, err)
	}
	return items, nil
}

const analyticsColumns = `link_id, account_id, ip, user_agent, platform, browser, version, language,
	referrer, timestamp, remote_port, accept, accept_language, accept_encoding,
	screen_size, window_size, country, isp, ip_version`

type pgAnalyticsRepository struct {
	db *PostgresDB
}

func (r *pgAnalyticsRepository) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics (` + analyticsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		event.LinkID,
		event.AccountID,
		event.IP,
		event.UserAgent,
		event.Platform,
		event.Browser,
		event.Version,
		event.Language,
		event.Referrer,
		event.Timestamp,
		event.RemotePort,
		event.Accept,
		event.AcceptLanguage,
		event.AcceptEncoding,
		event.ScreenSize,
		event.WindowSize,
		event.Country,
		event.ISP,
		event.IPVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to record analytics: %w", err)
	}

	return nil
}

func (r *pgAnalyticsRepository) ListByAccount(ctx context.Context, accountID string) ([]models.AnalyticsEvent, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE account_id = $1 ORDER BY id`
	return r.query(ctx, query, accountID)
}

func (r *pgAnalyticsRepository) ListByLink(ctx context.Context, linkID string) ([]models.AnalyticsEvent, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE link_id = $1 ORDER BY id`
	return r.query(ctx, query, linkID)
}

func (r *pgAnalyticsRepository) query(ctx context.Context, query string, args ...any) ([]models.AnalyticsEvent, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}
	defer rows.Close()

	events := []models.AnalyticsEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analytics: %w", err)
	}

	return events, nil
}

func scanEvent(rows pgx.Rows) (models.AnalyticsEvent, error) {
	var e models.AnalyticsEvent
	err := rows.Scan(
		&e.LinkID,
		&e.AccountID,
		&e.IP,
		&e.UserAgent,
		&e.Platform,
		&e.Browser,
		&e.Version,
		&e.Language,
		&e.Referrer,
		&e.Timestamp,
		&e.RemotePort,
		&e.Accept,
		&e.AcceptLanguage,
		&e.AcceptEncoding,
		&e.ScreenSize,
		&e.WindowSize,
		&e.Country,
		&e.ISP,
		&e.IPVersion,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan analytics: %w", err)
	}
	return e, nil
}

func (r *pgAnalyticsRepository) DeleteByLink(ctx context.Context, linkID string) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM analytics WHERE link_id = $1`, linkID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete analytics: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *pgAnalyticsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM analytics`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analytics: %w", err)
	}
	return n, nil
}

func (r *pgAnalyticsRepository) GroupBy(ctx context.Context, field models.StatField, limit int) ([]models.StatItem, error) {
	if !validField(field) {
		return nil, fmt.Errorf("unsupported stat field %q", field)
	}

	// имя колонки приходит только из whitelist validField
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS count
		FROM analytics
		GROUP BY %[1]s
		ORDER BY count DESC, %[1]s
	`, field)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", field, err)
	}
	defer rows.Close()

	items := []models.StatItem{}
	for rows.Next() {
		var item models.StatItem
		if err := rows.Scan(&item.ID, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s stat: %w", field, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s stats: %w", field, err)
	}

	return items, nil
}
