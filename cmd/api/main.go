package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/config"
	"github.com/SergeiKhy/ulink-shortener/internal/handler"
	"github.com/SergeiKhy/ulink-shortener/internal/repository"
	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Подключение к хранилищу (mongo или postgres по схеме URI)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := repository.Open(connectCtx, cfg.Store)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.Error(err))
	}
	kind, _ := cfg.Store.Kind()
	logger.Info("Connected to store", zap.String("kind", string(kind)))

	// Redis необязателен: без него кэш отключён
	cache := repository.NewNoopCache()
	var redis *repository.RedisDB
	if cfg.Redis.Enabled() {
		redis, err = repository.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cache = repository.NewCacheRepository(redis)
		logger.Info("Connected to Redis")
	} else {
		logger.Info("Redis not configured, caching disabled")
	}

	// Фоновая дочистка аналитики (Worker Pool)
	purger := service.NewAnalyticsPurger(store.Analytics(), logger)
	purger.Start()

	// Инициализация сервисов
	accountService := service.NewAccountService(store.Users(), logger)
	linkService := service.NewLinkService(store, cache, purger, logger, cfg.Cache.LinkTTL)
	analyticsService := service.NewAnalyticsService(store, cache, logger, cfg.Cache.StatsTTL)

	// Настройка роутера
	router := handler.NewRouter(accountService, linkService, analyticsService, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Сначала воркеры, затем соединения, которыми они пользуются
	purger.Stop()

	if redis != nil {
		if err := redis.Close(); err != nil {
			logger.Warn("Failed to close Redis", zap.Error(err))
		}
	}
	if err := store.Close(ctx); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
