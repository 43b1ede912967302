package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mirai-scheduler/internal/config"
	"mirai-scheduler/internal/source"
)

// Snapshotter is satisfied by *source.Cached.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*source.Snapshot, bool, error)
	Ping(ctx context.Context) error
}

type App struct {
	Source   Snapshotter
	Cfg      *config.Config
	Logger   *zap.Logger
	Calendar *GoogleCalendarConfig
	Now      func() time.Time
}

func New(src Snapshotter, cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		Source:   src,
		Cfg:      cfg,
		Logger:   logger,
		Calendar: NewGoogleCalendarConfig(cfg),
		Now:      time.Now,
	}
}
