// Package scheduler runs background jobs on an interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/edulistas/backend/internal/application/personalization"
	"go.uber.org/zap"
)

// Sweeper is the job the scheduler drives
type Sweeper interface {
	SweepExpired(ctx context.Context) (personalization.SweepResult, error)
}

// SweepSchedulerConfig holds configuration for the sweep scheduler
type SweepSchedulerConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration
	// RunOnStart runs a sweep immediately when the scheduler starts
	RunOnStart bool
}

// DefaultSweepSchedulerConfig returns the default scheduler configuration
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		Interval:   time.Hour,
		RunOnStart: true,
	}
}

// SweepScheduler periodically deletes expired visitor personalization
// events. Sweep failures are logged and the loop keeps running.
type SweepScheduler struct {
	config  SweepSchedulerConfig
	sweeper Sweeper
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepScheduler creates a new sweep scheduler
func NewSweepScheduler(config SweepSchedulerConfig, sweeper Sweeper, logger *zap.Logger) *SweepScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	return &SweepScheduler{
		config:  config,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start starts the sweep loop
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Personalization sweep scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Personalization sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SweepScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runSweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *SweepScheduler) runSweep(ctx context.Context) {
	if _, err := s.sweeper.SweepExpired(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("scheduled personalization sweep failed", zap.Error(err))
	}
}
