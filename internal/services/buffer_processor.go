package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/internal/infrastructure/buffer"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// BufferStore is the part of buffer.Store the processor drives.
type BufferStore interface {
	Enqueue(item buffer.Item) error
	Peek(limit int) ([]buffer.Item, error)
	Update(item buffer.Item) error
	Remove(item buffer.Item) error
	Size() (int, error)
	Pending(entity string, entityID int) (bool, error)
	Cleanup(olderThan time.Time) (int, error)
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered degree program saves once Postgres is back.
type BufferProcessor struct {
	store    BufferStore
	monitor  ConnectionHealth
	programs repository.DegreeProgramRepository
	events   usecase.EventPublisher
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig

	drainMu sync.Mutex
}

func NewBufferProcessor(
	store BufferStore,
	monitor ConnectionHealth,
	programs repository.DegreeProgramRepository,
	events usecase.EventPublisher,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		programs: programs,
		events:   events,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, bp.DrainNow)
	if cfg.Retention > 0 {
		_, _ = bp.cron.AddFunc("@hourly", bp.cleanup)
	}

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// DrainNow runs one drain outside the schedule, e.g. right after Postgres
// recovers.
func (bp *BufferProcessor) DrainNow() {
	if bp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), bp.cfg.Interval)
	defer cancel()
	if err := bp.Drain(ctx); err != nil {
		bp.logger.Error("buffer drain failed", zap.Error(err))
	}
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays buffered saves in enqueue order. Once a save of a program
// fails, later saves of the same program wait for the next drain.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}
	bp.drainMu.Lock()
	defer bp.drainMu.Unlock()

	items, err := bp.store.Peek(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	blocked := map[int]bool{}
	for _, item := range items {
		if blocked[item.EntityID] {
			continue
		}
		snapshot, err := bp.processItem(ctx, item)
		if err != nil {
			bp.logger.Error("failed to replay buffered save",
				zap.String("item_id", item.ID),
				zap.Int("degree_program_id", item.EntityID),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered save (max retries reached)", zap.String("item_id", item.ID), zap.Int("degree_program_id", item.EntityID))
				_ = bp.store.Remove(item)
				continue
			}
			blocked[item.EntityID] = true
			if err := bp.store.Update(item); err != nil {
				bp.logger.Error("failed to update buffered save", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed save", zap.Error(err))
		}
		bp.publishReplayed(ctx, snapshot)
	}
	return nil
}

// BufferOperation retries the write once when storage looks reachable and
// nothing of the same entity is queued, and stores it for later replay
// otherwise.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	pending, err := bp.Pending(item.Entity, item.EntityID)
	if err != nil {
		return err
	}
	if !pending && (bp.monitor == nil || bp.monitor.IsOnline()) {
		if _, err := bp.processItem(ctx, item); err == nil {
			return nil
		} else {
			bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
		}
	}
	return bp.store.Enqueue(item)
}

// Pending reports whether saves of the entity are still waiting for replay.
// A new save of such an entity must queue behind them.
func (bp *BufferProcessor) Pending(entity string, entityID int) (bool, error) {
	if bp == nil || bp.store == nil {
		return false, nil
	}
	return bp.store.Pending(entity, entityID)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) cleanup() {
	removed, err := bp.store.Cleanup(time.Now().Add(-bp.cfg.Retention))
	if err != nil {
		bp.logger.Error("buffer cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		bp.logger.Warn("expired buffered saves discarded", zap.Int("count", removed))
	}
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) (domain.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityDegreeProgram:
		if item.Operation != buffer.OperationSave {
			return domain.Snapshot{}, fmt.Errorf("unsupported operation %s", item.Operation)
		}
		var write degreeProgramWrite
		if err := json.Unmarshal(item.Data, &write); err != nil {
			return domain.Snapshot{}, err
		}
		return write.Snapshot, bp.programs.SaveSnapshot(ctx, write.Snapshot, write.Events)
	default:
		return domain.Snapshot{}, fmt.Errorf("unsupported entity %s", item.Entity)
	}
}

// publishReplayed refreshes views that may have been rebuilt from stale rows
// while the save was buffered.
func (bp *BufferProcessor) publishReplayed(ctx context.Context, snapshot domain.Snapshot) {
	if bp.events == nil {
		return
	}
	err := bp.events.Dispatch(ctx,
		domain.DegreeProgramUpdated{ID: snapshot.ID},
		domain.RelationsChangedFromSnapshot(snapshot))
	if err != nil {
		bp.logger.Warn("replayed save event handling failed", zap.Int("degree_program_id", snapshot.ID), zap.Error(err))
	}
}
