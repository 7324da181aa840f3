package scheduler

import (
	"context"
	"log/slog"
	"time"

	"coldmail-backend/internal/ratelimit/usecase"
)

// PruneScheduler periodically removes expired buckets so the store does not
// grow between requests.
type PruneScheduler struct {
	limiter  usecase.RateLimitUsecase
	interval time.Duration
	logger   *slog.Logger
}

// NewPruneScheduler creates a new scheduler
func NewPruneScheduler(limiter usecase.RateLimitUsecase, interval time.Duration) *PruneScheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &PruneScheduler{
		limiter:  limiter,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Run prunes once immediately and then every interval until ctx is cancelled.
func (s *PruneScheduler) Run(ctx context.Context) error {
	s.logger.Info("[RateLimitScheduler] starting", "interval", s.interval)

	s.pruneOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pruneOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("[RateLimitScheduler] stopped")
			return nil
		}
	}
}

func (s *PruneScheduler) pruneOnce(ctx context.Context) {
	removed, err := s.limiter.Prune(ctx)
	if err != nil {
		s.logger.Error("[RateLimitScheduler] prune failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("[RateLimitScheduler] pruned buckets", "removed", removed)
	}
}
