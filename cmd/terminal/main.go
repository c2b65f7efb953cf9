package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lapakpos/terminal/internal/backend"
	"lapakpos/terminal/internal/cache"
	"lapakpos/terminal/internal/config"
	"lapakpos/terminal/internal/httpapi"
	"lapakpos/terminal/internal/logger"
	"lapakpos/terminal/internal/service"
	"lapakpos/terminal/internal/store"
	"lapakpos/terminal/internal/store/memory"
	sqlitestore "lapakpos/terminal/internal/store/sqlite"
	syncpkg "lapakpos/terminal/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var local store.LocalStore
	closers := make([]func() error, 0, 3)

	if cfg.LocalDBPath != "" {
		sq, err := sqlitestore.Open(cfg.LocalDBPath)
		if err != nil {
			appLogger.Fatal("local store unavailable and LOCAL_DB_PATH is set; refusing to start without durable storage",
				zap.String("path", cfg.LocalDBPath), zap.Error(err))
		}
		local = sq
		closers = append(closers, sq.Close)
		appLogger.Info("local store: sqlite", zap.String("path", cfg.LocalDBPath))
	} else {
		local = memory.New()
		appLogger.Warn("local store: in-memory, data is lost on restart")
	}

	searchCache := cache.SearchCache(cache.NoopSearchCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSearchCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			appLogger.Warn("redis unavailable, using noop search cache", zap.Error(err))
		} else {
			searchCache = redisCache
			closers = append(closers, redisCache.Close)
			appLogger.Info("search cache: redis", zap.String("addr", cfg.RedisAddr))
		}
		pingCancel()
	}

	var saleBackend service.SaleBackend
	if cfg.BackendURL != "" {
		client := backend.NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.TerminalID)
		saleBackend = client

		syncer := syncpkg.New(local, client, cfg.OutletID,
			time.Duration(cfg.SyncIntervalSeconds)*time.Second, appLogger)
		go syncer.Start(ctx)
		appLogger.Info("sync: enabled",
			zap.String("backend", cfg.BackendURL),
			zap.Int("interval_seconds", cfg.SyncIntervalSeconds))
	} else {
		appLogger.Warn("sync: disabled, BACKEND_URL is not set")
	}

	svc := service.New(local, saleBackend, searchCache,
		time.Duration(cfg.SearchCacheTTLSeconds)*time.Second, cfg.OutletID, appLogger)
	auth := httpapi.NewAuthManager(cfg.AuthSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, cfg.OutletID, local)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, appLogger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.Info("terminal agent listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			appLogger.Error("close error", zap.Error(err))
		}
	}

	appLogger.Info("terminal agent stopped")
}

func validateConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.OutletID == "" {
		return fmt.Errorf("OUTLET_ID must not be empty")
	}
	return nil
}
