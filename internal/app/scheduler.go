package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/bg"
	"github.com/sufield/confdesk/internal/ports"
)

// SalesUpdater is the part of the sales report service the scheduler drives.
type SalesUpdater interface {
	SendUpdate(ctx context.Context, conferenceID string, now time.Time) (*ports.SalesReport, error)
}

// SchedulerConfig controls which conferences get a sales update and how often.
type SchedulerConfig struct {
	Interval    time.Duration
	Conferences []string
	RunOnStart  bool
}

// Scheduler periodically sends the sales update for the configured
// conferences. Runs are handed to a bg.Runner; a tick that arrives while
// the previous run is still in progress is skipped.
type Scheduler struct {
	updater SalesUpdater
	runner  bg.Runner
	logger  *zap.Logger

	mu  sync.Mutex
	cfg SchedulerConfig

	reconfigure chan struct{}
	running     atomic.Bool
}

// NewScheduler creates a Scheduler. A nil runner runs updates on the
// scheduler goroutine.
func NewScheduler(updater SalesUpdater, runner bg.Runner, logger *zap.Logger, cfg SchedulerConfig) *Scheduler {
	if runner == nil {
		runner = bg.Sync{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		updater:     updater,
		runner:      runner,
		logger:      logger.With(zap.String("component", "scheduler")),
		cfg:         copySchedulerConfig(cfg),
		reconfigure: make(chan struct{}, 1),
	}
}

// Config returns the current schedule.
func (s *Scheduler) Config() SchedulerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySchedulerConfig(s.cfg)
}

// Reconfigure replaces the schedule. A running Run loop restarts its ticker
// with the new interval.
func (s *Scheduler) Reconfigure(cfg SchedulerConfig) {
	s.mu.Lock()
	s.cfg = copySchedulerConfig(cfg)
	s.mu.Unlock()

	select {
	case s.reconfigure <- struct{}{}:
	default:
	}
	s.logger.Info("schedule updated",
		zap.Duration("interval", cfg.Interval),
		zap.Strings("conferences", cfg.Conferences))
}

// Run blocks until ctx is cancelled. Failed runs are logged and do not stop
// the loop. When the runner is a bg.Waiter, Run waits for in-flight updates
// before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	cfg := s.Config()
	if cfg.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive (got %s)", cfg.Interval)
	}
	if w, ok := s.runner.(bg.Waiter); ok {
		defer w.Wait()
	}

	s.logger.Info("scheduler started",
		zap.Duration("interval", cfg.Interval),
		zap.Strings("conferences", cfg.Conferences))

	if cfg.RunOnStart {
		s.dispatch(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-s.reconfigure:
			next := s.Config()
			if next.Interval > 0 {
				ticker.Reset(next.Interval)
			}
		case <-ticker.C:
			s.dispatch(ctx)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous sales update still running, skipping tick")
		return
	}
	s.runner.Do(func() {
		defer s.running.Store(false)
		if err := s.RunOnce(ctx, time.Time{}); err != nil {
			s.logger.Error("sales update run failed", zap.Error(err))
		}
	})
}

// RunOnce sends the update for every configured conference and returns the
// joined errors of the failed ones.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	var errs []error
	for _, id := range s.Config().Conferences {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.updater.SendUpdate(ctx, id, now); err != nil {
			errs = append(errs, fmt.Errorf("conference %s: %w", id, err))
			continue
		}
	}
	return errors.Join(errs...)
}

func copySchedulerConfig(cfg SchedulerConfig) SchedulerConfig {
	cfg.Conferences = append([]string(nil), cfg.Conferences...)
	return cfg
}
