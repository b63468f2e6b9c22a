package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper evicts expired entries and reports how many it removed
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// CleanupManager periodically sweeps the in-process cache so expired
// attempt counters and block records do not accumulate.
type CleanupManager struct {
	target   Sweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewCleanupManager(target Sweeper, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		target:   target,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start blocks until Stop is called or ctx is done
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.RunOnce(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cache sweeper stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cache sweeper context cancelled")
			return
		}
	}
}

// RunOnce performs a single sweep
func (cm *CleanupManager) RunOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	removed, err := cm.target.Sweep(sweepCtx)
	if err != nil {
		cm.logger.Error("cache sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		cm.logger.Debug("cache sweep completed", slog.Int64("removed", removed))
	}
}

// Stop is safe to call more than once
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
