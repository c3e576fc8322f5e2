// Package service drives the dual-confirmation state machine. All state
// transitions run inside the store's per-key serialization, so a concurrent
// tap from both partners resolves as two sequential read-modify-writes and
// the final state reflects both.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tandem/internal/confirm"
	"tandem/internal/confirm/metrics"
	"tandem/pkg/audit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

type Service struct {
	store confirm.Store

	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(pub audit.Publisher) Option {
	return func(s *Service) { s.auditor = pub }
}

func New(store confirm.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("confirm store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Tap advances the state machine for one partner:
//
//	absent    -> pending     (first tap creates the action, flag set)
//	pending   -> pending     (other flag set, or own flag cleared)
//	pending   -> absent      (retraction cleared the last flag)
//	pending   -> confirmed   (both flags set; one-way latch)
//	confirmed -> confirmed   (no-op; the latch cannot be toggled)
//	expired   -> pending     (fresh action replaces the terminal record)
//
// The TTL is fixed at creation from the caller's current tier-derived
// duration; later tier changes never stretch an existing deadline.
func (s *Service) Tap(ctx context.Context, key confirm.Key, partner id.Partner, ttl time.Duration) (*confirm.Action, error) {
	if key.Couple.IsNil() || key.Target == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "couple and target are required")
	}
	if _, err := confirm.ParseKind(string(key.Kind)); err != nil {
		return nil, err
	}
	if partner != id.Partner1 && partner != id.Partner2 {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid partner")
	}
	if ttl <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "ttl must be positive")
	}

	start := time.Now()
	now := requestcontext.Now(ctx)

	var created, confirmed, retracted, deleted bool
	result, err := s.store.Mutate(ctx, key, func(current *confirm.Action) (*confirm.Action, error) {
		switch {
		case current == nil:
			created = true
			return s.newAction(key, partner, ttl, now), nil

		case current.Status == confirm.StatusConfirmed:
			// One-way latch: no further toggles through this id.
			return current, nil

		case current.Status == confirm.StatusExpired:
			// Terminal. A new attempt starts from absent.
			created = true
			return s.newAction(key, partner, ttl, now), nil

		default: // pending
			if current.Confirmed(partner) {
				retracted = true
				current.SetConfirmed(partner, false)
				if !current.Partner1Confirmed && !current.Partner2Confirmed {
					deleted = true
					return nil, nil
				}
				return current, nil
			}
			current.SetConfirmed(partner, true)
			if current.Partner1Confirmed && current.Partner2Confirmed {
				confirmed = true
				current.Status = confirm.StatusConfirmed
			}
			return current, nil
		}
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply tap")
	}

	if s.metrics != nil {
		s.metrics.ObserveTap(start)
		if created {
			s.metrics.ActionsCreated.Inc()
		}
		if confirmed {
			s.metrics.ActionsConfirmed.Inc()
		}
		if retracted {
			s.metrics.ActionsRetracted.Inc()
		}
	}

	switch {
	case created:
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventActionCreated, key.Couple, key.Target, string(key.Kind))
	case confirmed:
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventActionConfirmed, key.Couple, key.Target, string(key.Kind))
	case retracted:
		detail := string(key.Kind)
		if deleted {
			detail += " (last flag cleared, action removed)"
		}
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventActionRetracted, key.Couple, key.Target, detail)
	}

	return result, nil
}

func (s *Service) newAction(key confirm.Key, partner id.Partner, ttl time.Duration, now time.Time) *confirm.Action {
	a := &confirm.Action{
		ID:        uuid.New(),
		Key:       key,
		Initiator: partner,
		Status:    confirm.StatusPending,
		CreatedAt: now,
		TTL:       ttl,
	}
	if partner == id.Partner1 {
		a.Partner1Confirmed = true
	} else {
		a.Partner2Confirmed = true
	}
	return a
}

// Get returns the action for a key, or nil when absent. Missing actions are
// a neutral state, never an error.
func (s *Service) Get(ctx context.Context, key confirm.Key) (*confirm.Action, error) {
	a, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read action")
	}
	return a, nil
}

// IsConfirmed reports whether the key's action has reached the latch.
func (s *Service) IsConfirmed(ctx context.Context, key confirm.Key) (bool, error) {
	a, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return a != nil && a.Status == confirm.StatusConfirmed, nil
}

// HasConfirmed reports whether the couple has any confirmed action. The
// founding activation watcher consumes this.
func (s *Service) HasConfirmed(ctx context.Context, couple id.CoupleID) (bool, error) {
	ok, err := s.store.HasConfirmed(ctx, couple)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check confirmed actions")
	}
	return ok, nil
}

// List returns all actions for a couple.
func (s *Service) List(ctx context.Context, couple id.CoupleID) ([]*confirm.Action, error) {
	actions, err := s.store.ListByCouple(ctx, couple)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list actions")
	}
	return actions, nil
}
