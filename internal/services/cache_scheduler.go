package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CacheWarmer rebuilds every cached translated view.
type CacheWarmer interface {
	WarmFully(ctx context.Context) error
}

// CacheScheduler runs a full cache warm-up on a cron schedule.
type CacheScheduler struct {
	warmer  CacheWarmer
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewCacheScheduler accepts standard five-field cron specs and descriptors such as "@daily".
func NewCacheScheduler(warmer CacheWarmer, schedule string, timeout time.Duration, logger *zap.Logger) (*CacheScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	cs := &CacheScheduler{
		warmer:  warmer,
		cron:    cron.New(),
		timeout: timeout,
		logger:  logger,
	}
	if _, err := cs.cron.AddFunc(schedule, func() { cs.Warm(context.Background()) }); err != nil {
		return nil, err
	}
	return cs, nil
}

// Warm performs one warm-up synchronously, bounded by the scheduler timeout.
func (cs *CacheScheduler) Warm(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, cs.timeout)
	defer cancel()

	started := time.Now()
	if err := cs.warmer.WarmFully(ctx); err != nil {
		cs.logger.Error("scheduled cache warm-up failed", zap.Error(err))
		return
	}
	cs.logger.Info("scheduled cache warm-up finished", zap.Duration("took", time.Since(started)))
}

func (cs *CacheScheduler) Start() {
	cs.cron.Start()
	cs.logger.Info("cache scheduler started")
}

func (cs *CacheScheduler) Stop(ctx context.Context) {
	stopCtx := cs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cs.logger.Info("cache scheduler stopped")
}
