package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tandem/internal/confirm"
	"tandem/internal/confirm/metrics"
	"tandem/pkg/audit"
)

// DefaultSweepInterval matches the reference cadence of the expiry ticker.
const DefaultSweepInterval = 5 * time.Second

// Sweeper periodically transitions timed-out pending actions to expired.
// It runs for the lifetime of the process; cancellation is the surrounding
// context, nothing finer-grained.
type Sweeper struct {
	store    confirm.Store
	interval time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor audit.Publisher
}

type SweeperOption func(*Sweeper)

func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = logger }
}

func WithSweeperMetrics(m *metrics.Metrics) SweeperOption {
	return func(s *Sweeper) { s.metrics = m }
}

func WithSweeperAuditPublisher(pub audit.Publisher) SweeperOption {
	return func(s *Sweeper) { s.auditor = pub }
}

func NewSweeper(store confirm.Store, interval time.Duration, opts ...SweeperOption) (*Sweeper, error) {
	if store == nil {
		return nil, fmt.Errorf("confirm store is required")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	sw := &Sweeper{store: store, interval: interval}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

// Run ticks until ctx is cancelled. Sweep errors are logged, not fatal; a
// stuck pending action resolves on the next healthy tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.SweepAt(ctx, time.Now()); err != nil && s.logger != nil {
				s.logger.ErrorContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}

// SweepAt performs one idempotent scan at the given instant and returns the
// transitioned keys. Exported for testability and for hosts that drive the
// clock themselves.
func (s *Sweeper) SweepAt(ctx context.Context, now time.Time) ([]confirm.Key, error) {
	transitioned, err := s.store.SweepExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("sweep expirations: %w", err)
	}

	for _, key := range transitioned {
		if s.metrics != nil {
			s.metrics.ActionsExpired.Inc()
		}
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventActionExpired, key.Couple, key.Target, string(key.Kind))
	}
	return transitioned, nil
}
