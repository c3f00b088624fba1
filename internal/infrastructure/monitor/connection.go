package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/internal/infrastructure/buffer"
)

// Check pings one dependency; a nil error means reachable.
type Check func(ctx context.Context) error

// Checks groups the checks run on every tick. Nil checks report unavailable.
type Checks struct {
	Postgres   Check
	Redis      Check
	BufferSize func() (int, error)
}

// Monitor periodically checks the catalog's backing stores. Writes only need
// Postgres; Redis holds nothing but rebuildable translated views.
type Monitor struct {
	checks   Checks
	interval time.Duration
	logger   *zap.Logger

	mu          sync.RWMutex
	status      Status
	onRecovered []func()

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(pg *pgxpool.Pool, redis *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	checks := Checks{}
	if pg != nil {
		checks.Postgres = func(ctx context.Context) error { return pg.Ping(ctx) }
	}
	if redis != nil {
		checks.Redis = func(ctx context.Context) error { return redis.Ping(ctx).Err() }
	}
	if buf != nil {
		checks.BufferSize = buf.Size
	}
	return NewWithChecks(checks, interval, logger)
}

func NewWithChecks(checks Checks, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// OnPostgresRecovered registers fn to run (in its own goroutine) whenever a
// check sees Postgres come back after being unreachable.
func (m *Monitor) OnPostgresRecovered(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRecovered = append(m.onRecovered, fn)
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether degree program writes can reach Postgres.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL
}

func (m *Monitor) CacheAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and publishes the new status.
func (m *Monitor) Refresh(ctx context.Context) Status {
	bufferOK, bufferSize := m.checkBuffer()
	status := Status{
		PostgreSQL: check(ctx, m.checks.Postgres, 3*time.Second),
		Redis:      check(ctx, m.checks.Redis, 2*time.Second),
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}
	status.Mode = ModeOnline
	if !status.PostgreSQL {
		status.Mode = ModeBuffering
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	listeners := append([]func(){}, m.onRecovered...)
	m.mu.Unlock()

	if previous.LastCheck.IsZero() || previous.PostgreSQL == status.PostgreSQL {
		return status
	}
	m.logger.Warn("postgres availability changed",
		zap.Bool("online", status.PostgreSQL),
		zap.Int("buffered_writes", status.BufferSize))
	if status.PostgreSQL {
		for _, fn := range listeners {
			go fn()
		}
	}
	return status
}

func check(ctx context.Context, fn Check, timeout time.Duration) bool {
	if fn == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx) == nil
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.checks.BufferSize == nil {
		return false, 0
	}
	size, err := m.checks.BufferSize()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
