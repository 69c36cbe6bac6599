package supervisor

import (
	"context"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	"github.com/coffeecorner/queue/common/metrics"
)

// SweepFunc performs one pass and returns how many notifications it sent
type SweepFunc func(ctx context.Context) int

// Sweeper runs a SweepFunc on a fixed interval until its context is cancelled
type Sweeper struct {
	name          string
	sweep         SweepFunc
	logger        *logger.Logger
	checkInterval time.Duration
}

// NewSweeper creates a sweeper that runs every minute
func NewSweeper(name string, sweep SweepFunc, log *logger.Logger) *Sweeper {
	return &Sweeper{
		name:          name,
		sweep:         sweep,
		logger:        log.WithComponent(name),
		checkInterval: time.Minute,
	}
}

// WithCheckInterval sets the check interval; non-positive values are ignored
func (s *Sweeper) WithCheckInterval(interval time.Duration) *Sweeper {
	if interval > 0 {
		s.checkInterval = interval
	}
	return s
}

// Start blocks, sweeping on every tick, and returns ctx.Err() on shutdown
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("sweeper starting", "sweeper", s.name, "check_interval", s.checkInterval)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shutting down", "sweeper", s.name)
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	start := time.Now()
	sent := s.sweep(ctx)
	metrics.ObserveSweep(s.name, time.Since(start), sent)

	if sent > 0 {
		s.logger.Info("sweep sent notifications", "sweeper", s.name, "sent", sent)
	}
}
