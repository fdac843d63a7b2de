package scheduler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

// DefaultInterval is how often the background sweep runs.
const DefaultInterval = time.Minute

// Sweeper runs the global expiry sweep on a fixed interval.
type Sweeper struct {
	lifecycle ports.Lifecycle
	interval  time.Duration
	logger    *slog.Logger
	tick      func(time.Duration) (<-chan time.Time, func())
}

type Option func(*Sweeper)

func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSweeper(lifecycle ports.Lifecycle, opts ...Option) *Sweeper {
	s := &Sweeper{
		lifecycle: lifecycle,
		interval:  DefaultInterval,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticks, stop := s.tick(s.interval)
	defer stop()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order sweeper started", slog.Duration("interval", s.interval))
	for {
		s.Once(ctx)
		select {
		case <-ctx.Done():
			s.logger.LogAttrs(context.Background(), slog.LevelInfo, "order sweeper stopped")
			return
		case <-ticks:
		}
	}
}

// Once runs a single sweep and logs its outcome.
func (s *Sweeper) Once(ctx context.Context) *ports.SweepResult {
	result, err := s.lifecycle.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "order sweep failed", slog.String("error", err.Error()))
		}
		return nil
	}
	if len(result.Expired) > 0 || len(result.Failed) > 0 {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "order sweep completed",
			slog.Int("expired", len(result.Expired)),
			slog.Int("skipped", result.Skipped),
			slog.Int("failed", len(result.Failed)))
	}
	return result
}
