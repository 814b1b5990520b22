package service

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/metrics"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
	"go.uber.org/zap"
)

// Константы worker pool
const (
	defaultWorkerCount   = 2   // Количество воркеров
	defaultChannelBuffer = 256 // Размер буфера канала
	maxRetries           = 3   // Максимальное количество попыток удаления
	purgeTimeout         = 5 * time.Second
)

// AnalyticsPurger дочищает аналитику удалённых ссылок в фоне.
// DeleteByLink идемпотентна, поэтому повтор безопасен.
type AnalyticsPurger interface {
	Start()
	Stop()
	Enqueue(ctx context.Context, linkID string) error
}

// analyticsPurger реализация с использованием Worker Pool
type analyticsPurger struct {
	analytics   repository.AnalyticsRepository
	logger      *zap.Logger
	queue       chan string // Канал id ссылок на дочистку
	workerCount int
	retryDelay  time.Duration
	wg          sync.WaitGroup
	done        chan struct{} // Закрывается в Stop
	stopOnce    sync.Once
}

// NewAnalyticsPurger создаёт новый экземпляр пула
func NewAnalyticsPurger(analytics repository.AnalyticsRepository, logger *zap.Logger) AnalyticsPurger {
	return &analyticsPurger{
		analytics:   analytics,
		logger:      logger,
		queue:       make(chan string, defaultChannelBuffer),
		workerCount: defaultWorkerCount,
		retryDelay:  100 * time.Millisecond,
		done:        make(chan struct{}),
	}
}

// Start запускает worker pool
func (p *analyticsPurger) Start() {
	p.logger.Info("Starting analytics purge workers", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop ждёт текущие удаления и синхронно дочищает остаток очереди
func (p *analyticsPurger) Stop() {
	p.logger.Info("Stopping analytics purge workers...")
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()

	for {
		select {
		case linkID := <-p.queue:
			p.purge(context.Background(), linkID)
		default:
			p.logger.Info("Analytics purge workers stopped")
			return
		}
	}
}

// worker обрабатывает id ссылок из канала. Начатое удаление не прерывается
// остановкой: контекст у него свой, с purgeTimeout на попытку.
func (p *analyticsPurger) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Purge worker started", zap.Int("id", id))

	for {
		select {
		case <-p.done:
			p.logger.Debug("Purge worker stopped", zap.Int("id", id))
			return

		case linkID := <-p.queue:
			p.purge(context.Background(), linkID)
		}
	}
}

// purge удаляет аналитику ссылки с retry логикой
func (p *analyticsPurger) purge(parent context.Context, linkID string) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(parent, purgeTimeout)
		deleted, err := p.analytics.DeleteByLink(ctx, linkID)
		cancel()

		if err == nil {
			p.logger.Info("Analytics purged",
				zap.String("link_id", linkID),
				zap.Int64("deleted", deleted),
			)
			return
		}
		lastErr = err

		if i < maxRetries-1 {
			p.logger.Debug("Retrying analytics purge",
				zap.String("link_id", linkID),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(time.Duration(i+1) * p.retryDelay)
		}
	}

	metrics.PurgeFailures.Inc()
	p.logger.Error("Analytics purge failed after all retries",
		zap.String("link_id", linkID),
		zap.Error(lastErr),
	)
}

// Enqueue ставит ссылку в очередь; при заполненном буфере дочищает синхронно
func (p *analyticsPurger) Enqueue(ctx context.Context, linkID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.queue <- linkID:
		return nil
	default:
		p.logger.Warn("Purge queue is full, purging inline", zap.String("link_id", linkID))
		p.purge(ctx, linkID)
		return nil
	}
}
