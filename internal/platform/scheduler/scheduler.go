// Package scheduler runs country refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher is the part of the country service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a plain function to Refresher.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Scheduler triggers a refresh on every tick of a cron spec. A tick that
// arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// New parses spec (standard five-field cron, or descriptors such as "@every 1h")
// and returns a stopped scheduler.
func New(spec string, refresher Refresher, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Refresh scheduler started")
}

// Stop halts new ticks and waits for a running refresh, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Refresh scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Refresh scheduler stop timed out")
	}
}

func (s *Scheduler) run() {
	if !s.tryAcquire() {
		s.logger.Warn("Previous scheduled refresh still running, skipping tick")
		return
	}
	defer s.release()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled refresh failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Scheduled refresh completed", slog.Duration("took", time.Since(start)))
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
