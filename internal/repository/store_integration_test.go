package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

func skipIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// startMongo поднимает standalone mongo: транзакций нет, каскад идёт последовательно
func startMongo(t *testing.T) repository.Store {
	t.Helper()
	ctx := t.Context()

	ctr, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := repository.Open(ctx, config.StoreConfig{URI: uri + "/ulink_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func startPostgres(t *testing.T) repository.Store {
	t.Helper()
	ctx := t.Context()

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ulink"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := repository.Open(ctx, config.StoreConfig{URI: uri})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func event(linkID, accountID, platform, country string) *models.AnalyticsEvent {
	return &models.AnalyticsEvent{
		LinkID:    linkID,
		AccountID: accountID,
		ClientInfo: models.ClientInfo{
			IP:             "192.0.2.1",
			UserAgent:      "test",
			Platform:       platform,
			Browser:        "Chrome",
			Version:        "120.0",
			Language:       "en",
			Referrer:       models.DirectReferrer,
			Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
			RemotePort:     "1234",
			Accept:         models.Unknown,
			AcceptLanguage: models.Unknown,
			AcceptEncoding: models.Unknown,
			ScreenSize:     models.Unknown,
			WindowSize:     models.Unknown,
			Country:        country,
			ISP:            models.Unknown,
			IPVersion:      models.IPv4,
		},
	}
}

// runStoreSuite общий набор проверок для любого бэкенда
func runStoreSuite(t *testing.T, store repository.Store) {
	ctx := t.Context()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("users unique", func(t *testing.T) {
		require.NoError(t, store.Users().Create(ctx, &models.User{AccountID: "10000001", CreatedAt: now}))

		err := store.Users().Create(ctx, &models.User{AccountID: "10000001", CreatedAt: now})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		user, err := store.Users().GetByAccountID(ctx, "10000001")
		require.NoError(t, err)
		assert.Equal(t, "10000001", user.AccountID)

		_, err = store.Users().GetByAccountID(ctx, "99999999")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("links", func(t *testing.T) {
		links := store.Links()
		require.NoError(t, links.Create(ctx, &models.Link{ShortID: "linkAAAA", TargetURL: "https://a.example", AccountID: "10000001", CreatedAt: now}))
		require.NoError(t, links.Create(ctx, &models.Link{ShortID: "linkBBBB", TargetURL: "https://b.example", AccountID: "10000001", CreatedAt: now.Add(time.Second)}))

		err := links.Create(ctx, &models.Link{ShortID: "linkAAAA", TargetURL: "https://c.example", AccountID: "10000002", CreatedAt: now})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := links.GetByShortID(ctx, "linkAAAA")
		require.NoError(t, err)
		assert.Equal(t, "https://a.example", got.TargetURL)

		_, err = links.GetOwned(ctx, "linkAAAA", "10000002")
		assert.ErrorIs(t, err, repository.ErrLinkNotFound)

		list, err := links.ListByAccount(ctx, "10000001")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "linkBBBB", list[0].ShortID)

		empty, err := links.ListByAccount(ctx, "10000002")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		require.NoError(t, links.UpdateTarget(ctx, "linkBBBB", "10000001", "https://b2.example"))
		assert.ErrorIs(t, links.UpdateTarget(ctx, "linkBBBB", "10000002", "https://x.example"), repository.ErrLinkNotFound)

		n, err := links.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("analytics", func(t *testing.T) {
		analytics := store.Analytics()
		for i := 0; i < 3; i++ {
			require.NoError(t, analytics.Record(ctx, event("linkAAAA", "10000001", "Windows", "DE")))
		}
		require.NoError(t, analytics.Record(ctx, event("linkBBBB", "10000001", "macOS", "US")))

		byLink, err := analytics.ListByLink(ctx, "linkAAAA")
		require.NoError(t, err)
		assert.Len(t, byLink, 3)
		assert.Equal(t, "Windows", byLink[0].Platform)

		byAccount, err := analytics.ListByAccount(ctx, "10000001")
		require.NoError(t, err)
		assert.Len(t, byAccount, 4)

		platforms, err := analytics.GroupBy(ctx, models.StatPlatform, 10)
		require.NoError(t, err)
		assert.Equal(t, []models.StatItem{{ID: "Windows", Count: 3}, {ID: "macOS", Count: 1}}, platforms)

		top, err := analytics.GroupBy(ctx, models.StatCountry, 1)
		require.NoError(t, err)
		assert.Equal(t, []models.StatItem{{ID: "DE", Count: 3}}, top)

		_, err = analytics.GroupBy(ctx, models.StatField("account_id"), 0)
		assert.Error(t, err)
	})

	t.Run("remove link cascades", func(t *testing.T) {
		require.NoError(t, store.RemoveLink(ctx, "linkAAAA"))

		_, err := store.Links().GetByShortID(ctx, "linkAAAA")
		assert.ErrorIs(t, err, repository.ErrLinkNotFound)

		events, err := store.Analytics().ListByLink(ctx, "linkAAAA")
		require.NoError(t, err)
		assert.Empty(t, events)

		other, err := store.Analytics().ListByLink(ctx, "linkBBBB")
		require.NoError(t, err)
		assert.Len(t, other, 1)

		assert.ErrorIs(t, store.RemoveLink(ctx, "linkAAAA"), repository.ErrLinkNotFound)

		deleted, err := store.Analytics().DeleteByLink(ctx, "linkAAAA")
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestIntegration_MongoStore(t *testing.T) {
	skipIntegration(t)
	runStoreSuite(t, startMongo(t))
}

func TestIntegration_PostgresStore(t *testing.T) {
	skipIntegration(t)
	runStoreSuite(t, startPostgres(t))
}

// TestIntegration_RedisCache тестирует кэш ссылок и статистики
func TestIntegration_RedisCache(t *testing.T) {
	skipIntegration(t)
	ctx := t.Context()

	ctr, err := redis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := repository.NewRedisClient(config.RedisConfig{Host: host, Port: port.Port()})
	require.NoError(t, err)
	defer client.Close()

	cache := repository.NewCacheRepository(client)

	_, err = cache.GetLink(ctx, "linkAAAA")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	link := &models.Link{ShortID: "linkAAAA", TargetURL: "https://a.example", AccountID: "10000001"}
	require.NoError(t, cache.SetLink(ctx, link, time.Minute))

	got, err := cache.GetLink(ctx, "linkAAAA")
	require.NoError(t, err)
	assert.Equal(t, link.TargetURL, got.TargetURL)

	require.NoError(t, cache.DeleteLink(ctx, "linkAAAA"))
	_, err = cache.GetLink(ctx, "linkAAAA")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	stats := &models.Stats{TotalLinks: 3, TotalClicks: 7}
	require.NoError(t, cache.SetStats(ctx, stats, time.Minute))

	cached, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cached.TotalClicks)

	require.NoError(t, cache.SetStats(ctx, stats, 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := cache.GetStats(ctx)
		return err != nil
	}, 2*time.Second, 20*time.Millisecond, "stats key should expire")
}
