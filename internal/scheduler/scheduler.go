package scheduler

import (
	"context"
	"log/slog"
	"time"

	"sitecontent/internal/domain"
)

const buildTimeout = 5 * time.Minute

// Builder rebuilds the static content collection.
type Builder interface {
	Build(ctx context.Context) (*domain.BuildStats, error)
}

type Scheduler struct {
	builder  Builder
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(builder Builder, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		builder:  builder,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start rebuilds every interval until ctx is done. The first rebuild happens
// one interval after Start; callers build once themselves before serving.
// A zero interval disables periodic rebuilds and Start returns at once.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("periodic rebuild disabled")
		return nil
	}

	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runBuild(ctx)
		}
	}
}

func (s *Scheduler) runBuild(ctx context.Context) {
	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	if _, err := s.builder.Build(buildCtx); err != nil {
		s.logger.Error("build failed", "error", err)
	}
}
