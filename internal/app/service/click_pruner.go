package service

import (
	"context"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/repository"
	"go.uber.org/zap"
)

// ClickPruner periodically deletes click events older than the retention window.
type ClickPruner struct {
	logger    *zap.Logger
	repo      repository.ClickEventRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	stopChan  chan struct{}
}

// NewClickPruner creates a pruner; a non-positive interval defaults to one hour.
func NewClickPruner(logger *zap.Logger, repo repository.ClickEventRepository, retention, interval time.Duration) *ClickPruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ClickPruner{
		logger:    logger,
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic pruning.
func (p *ClickPruner) Start() {
	go p.run()
}

// Stop stops the periodic pruning.
func (p *ClickPruner) Stop() {
	close(p.stopChan)
}

func (p *ClickPruner) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := p.PruneOnce(context.Background()); err != nil {
				p.logger.Error("failed to prune click events", zap.Error(err))
			}
		case <-p.stopChan:
			p.logger.Info("click pruner stopped")
			return
		}
	}
}

// PruneOnce deletes events older than the retention window and reports how many went.
func (p *ClickPruner) PruneOnce(ctx context.Context) (int64, error) {
	if p.retention <= 0 {
		return 0, nil
	}
	before := p.now().Add(-p.retention)

	deleted, err := p.repo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("pruned click events",
			zap.Int64("count", deleted),
			zap.Time("before", before),
		)
	}
	return deleted, nil
}
