package tasks

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs the reconciler on a fixed interval until the context is
// cancelled.
type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	log        *slog.Logger
}

func NewScheduler(reconciler *Reconciler, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{reconciler: reconciler, interval: interval, log: log}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("sheet sync started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sheet sync stopped")
			return
		case <-ticker.C:
			started := time.Now()
			if err := s.reconciler.Run(ctx); err != nil {
				s.log.Error("sheet sync failed", "error", err)
				continue
			}
			s.log.Info("sheet sync finished", "took", time.Since(started))
		}
	}
}
