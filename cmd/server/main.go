package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mirai-scheduler/internal/app"
	"mirai-scheduler/internal/backend"
	"mirai-scheduler/internal/config"
	"mirai-scheduler/internal/logging"
	"mirai-scheduler/internal/server"
	"mirai-scheduler/internal/source"
	"mirai-scheduler/internal/store"
)

const snapshotTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var (
		src   source.Source
		scope func(context.Context) string
	)
	if cfg.DatabaseURL != "" {
		repo, err := store.New(ctx, cfg.DatabaseURL, cfg.WorkingDay.UnitMinutes)
		if err != nil {
			logger.Fatal("failed to connect to db", zap.Error(err))
		}
		defer repo.Close()
		src = repo
		logger.Info("reading from postgres")
	} else {
		src = backend.NewClient(cfg.BackendURL, cfg.BackendSessionToken)
		scope = backend.SessionScope
		logger.Info("reading from backend", zap.String("url", cfg.BackendURL))
	}

	var snapshots source.Store = source.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, snapshots kept in memory", zap.Error(err))
		} else {
			snapshots = source.NewRedisStore(rdb, snapshotTTL)
		}
	}

	cached := source.NewCached(src, snapshots, logger)
	cached.Scope = scope
	a := app.New(cached, cfg, logger)
	if a.Calendar == nil {
		logger.Info("google calendar overlay disabled")
	}

	if err := server.Run(a.Router(), cfg.Port, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
