package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database

	// транзакции доступны только в replica set или через mongos
	transactions bool
}

// MongoStore Store поверх одной базы MongoDB
type MongoStore struct {
	db        *MongoDB
	users     *mongoUserRepository
	links     *mongoLinkRepository
	analytics *mongoAnalyticsRepository
}

func NewMongoDB(ctx context.Context, cfg config.StoreConfig) (*MongoDB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := &MongoDB{
		Client: client,
		DB:     client.Database(cfg.DatabaseName()),
	}
	db.transactions = db.supportsTransactions(connectCtx)

	return db, nil
}

func NewMongoStore(ctx context.Context, cfg config.StoreConfig) (*MongoStore, error) {
	db, err := NewMongoDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}

	return &MongoStore{
		db:        db,
		users:     &mongoUserRepository{coll: db.Collection(UsersCollection)},
		links:     &mongoLinkRepository{coll: db.Collection(LinksCollection)},
		analytics: &mongoAnalyticsRepository{coll: db.Collection(AnalyticsCollection)},
	}, nil
}

func (db *MongoDB) Collection(name string) *mongo.Collection {
	return db.DB.Collection(name)
}

// EnsureIndexes уникальные индексы закрывают гонку check-then-insert
func (db *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "account_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		LinksCollection: {
			{Keys: bson.D{{Key: "short_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "account_id", Value: 1}}},
		},
		AnalyticsCollection: {
			{Keys: bson.D{{Key: "link_id", Value: 1}}},
			{Keys: bson.D{{Key: "account_id", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	return nil
}

func (db *MongoDB) supportsTransactions(ctx context.Context) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := db.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}

func (db *MongoDB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

func (s *MongoStore) Users() UserRepository { return s.users }
func (s *MongoStore) Links() LinkRepository { return s.links }
func (s *MongoStore) Analytics() AnalyticsRepository { return s.analytics }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

// RemoveLink в replica set удаляет ссылку и аналитику одной транзакцией.
// На standalone сервере шаги идут последовательно, и сбой второго
// возвращается как ErrCascadeIncomplete.
func (s *MongoStore) RemoveLink(ctx context.Context, shortID string) error {
	if s.db.transactions {
		return s.removeLinkTx(ctx, shortID)
	}

	if err := s.links.delete(ctx, shortID); err != nil {
		return err
	}
	if _, err := s.analytics.DeleteByLink(ctx, shortID); err != nil {
		return fmt.Errorf("%w: %v", ErrCascadeIncomplete, err)
	}
	return nil
}

func (s *MongoStore) removeLinkTx(ctx context.Context, shortID string) error {
	session, err := s.db.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.links.delete(sc, shortID); err != nil {
			return nil, err
		}
		return s.analytics.DeleteByLink(sc, shortID)
	})
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to remove link: %w", err)
	}
	return nil
}
