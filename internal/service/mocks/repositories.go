package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
)

// ErrInjected ошибка, которую возвращают операции с включённым сбоем
var ErrInjected = errors.New("injected failure")

// MemoryStore implements repository.Store for testing
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]models.User
	links  map[string]models.Link
	events []models.AnalyticsEvent

	failAnalyticsDeletes int
	recordErr            error
	pingErr              error
	closed               bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		links: make(map[string]models.Link),
	}
}

func (s *MemoryStore) Users() repository.UserRepository          { return &memoryUsers{s} }
func (s *MemoryStore) Links() repository.LinkRepository          { return &memoryLinks{s} }
func (s *MemoryStore) Analytics() repository.AnalyticsRepository { return &memoryAnalytics{s} }

// RemoveLink повторяет поведение хранилища без транзакций: ссылка
// удаляется первой, сбой удаления аналитики даёт ErrCascadeIncomplete.
func (s *MemoryStore) RemoveLink(ctx context.Context, shortID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[shortID]; !ok {
		return repository.ErrLinkNotFound
	}
	delete(s.links, shortID)

	if _, err := s.deleteEventsLocked(shortID); err != nil {
		return repository.ErrCascadeIncomplete
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

func (s *MemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FailAnalyticsDeletes следующие n удалений аналитики завершатся ошибкой
func (s *MemoryStore) FailAnalyticsDeletes(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAnalyticsDeletes = n
}

func (s *MemoryStore) FailRecords(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordErr = err
}

func (s *MemoryStore) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// EventCount число событий, ссылающихся на linkID
func (s *MemoryStore) EventCount(linkID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.events {
		if e.LinkID == linkID {
			n++
		}
	}
	return n
}

// PutLink кладёт ссылку в обход сервиса
func (s *MemoryStore) PutLink(link models.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ShortID] = link
}

func (s *MemoryStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.User)
	s.links = make(map[string]models.Link)
	s.events = nil
	s.failAnalyticsDeletes = 0
	s.recordErr = nil
	s.pingErr = nil
}

func (s *MemoryStore) deleteEventsLocked(linkID string) (int64, error) {
	if s.failAnalyticsDeletes > 0 {
		s.failAnalyticsDeletes--
		return 0, ErrInjected
	}

	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.LinkID == linkID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.AccountID]; exists {
		return repository.ErrDuplicate
	}
	r.s.users[user.AccountID] = *user
	return nil
}

func (r *memoryUsers) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, exists := r.s.users[accountID]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

type memoryLinks struct{ s *MemoryStore }

func (r *memoryLinks) Create(ctx context.Context, link *models.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.links[link.ShortID]; exists {
		return repository.ErrDuplicate
	}
	r.s.links[link.ShortID] = *link
	return nil
}

func (r *memoryLinks) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	link, exists := r.s.links[shortID]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	return &link, nil
}

func (r *memoryLinks) GetOwned(ctx context.Context, shortID, accountID string) (*models.Link, error) {
	link, err := r.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	if link.AccountID != accountID {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (r *memoryLinks) ListByAccount(ctx context.Context, accountID string) ([]models.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	links := []models.Link{}
	for _, link := range r.s.links {
		if link.AccountID == accountID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (r *memoryLinks) UpdateTarget(ctx context.Context, shortID, accountID, targetURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	link, exists := r.s.links[shortID]
	if !exists || link.AccountID != accountID {
		return repository.ErrLinkNotFound
	}
	link.TargetURL = targetURL
	r.s.links[shortID] = link
	return nil
}

func (r *memoryLinks) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.links)), nil
}

type memoryAnalytics struct{ s *MemoryStore }

func (r *memoryAnalytics) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.recordErr != nil {
		return r.s.recordErr
	}
	r.s.events = append(r.s.events, *event)
	return nil
}

func (r *memoryAnalytics) ListByAccount(ctx context.Context, accountID string) ([]models.AnalyticsEvent, error) {
	return r.filter(func(e models.AnalyticsEvent) bool { return e.AccountID == accountID }), nil
}

func (r *memoryAnalytics) ListByLink(ctx context.Context, linkID string) ([]models.AnalyticsEvent, error) {
	return r.filter(func(e models.AnalyticsEvent) bool { return e.LinkID == linkID }), nil
}

func (r *memoryAnalytics) filter(keep func(models.AnalyticsEvent) bool) []models.AnalyticsEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []models.AnalyticsEvent{}
	for _, e := range r.s.events {
		if keep(e) {
			events = append(events, e)
		}
	}
	return events
}

func (r *memoryAnalytics) DeleteByLink(ctx context.Context, linkID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteEventsLocked(linkID)
}

func (r *memoryAnalytics) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.events)), nil
}

func (r *memoryAnalytics) GroupBy(ctx context.Context, field models.StatField, limit int) ([]models.StatItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range r.s.events {
		var key string
		switch field {
		case models.StatIPVersion:
			key = e.IPVersion
		case models.StatPlatform:
			key = e.Platform
		case models.StatCountry:
			key = e.Country
		case models.StatISP:
			key = e.ISP
		default:
			return nil, errors.New("unsupported stat field")
		}
		counts[key]++
	}

	items := make([]models.StatItem, 0, len(counts))
	for id, n := range counts {
		items = append(items, models.StatItem{ID: id, Count: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].ID < items[j].ID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	links map[string]models.Link
	stats *models.Stats
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		links: make(map[string]models.Link),
	}
}

func (m *MockCacheRepository) GetLink(ctx context.Context, shortID string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[shortID]
	if !exists {
		return nil, repository.ErrCacheMiss
	}
	return &link, nil
}

func (m *MockCacheRepository) SetLink(ctx context.Context, link *models.Link, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link.ShortID] = *link
	return nil
}

func (m *MockCacheRepository) DeleteLink(ctx context.Context, shortID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, shortID)
	return nil
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.stats == nil {
		return nil, repository.ErrCacheMiss
	}
	stats := *m.stats
	return &stats, nil
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *models.Stats, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *stats
	m.stats = &cp
	return nil
}

func (m *MockCacheRepository) HasLink(shortID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.links[shortID]
	return ok
}

func (m *MockCacheRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = make(map[string]models.Link)
	m.stats = nil
}

// MockPurger запоминает ссылки, поставленные на дочистку
type MockPurger struct {
	mu       sync.Mutex
	enqueued []string
}

func (m *MockPurger) Start() {}
func (m *MockPurger) Stop()  {}

func (m *MockPurger) Enqueue(ctx context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, linkID)
	return nil
}

func (m *MockPurger) Enqueued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.enqueued...)
}
