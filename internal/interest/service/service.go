// Package service orchestrates the interest ledger: cap-bounded expression,
// retraction, and the mutuality check the messaging gate consumes.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"tandem/internal/interest"
	"tandem/internal/interest/metrics"
	"tandem/pkg/audit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// ReciprocitySource answers whether a candidate has independently expressed
// interest back. The reciprocal signal is an external capability; the ledger
// never derives it from its own entries.
type ReciprocitySource interface {
	HasReciprocated(ctx context.Context, candidate, couple id.CoupleID) (bool, error)
}

type Service struct {
	store       interest.Store
	reciprocity ReciprocitySource

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

func New(store interest.Store, reciprocity ReciprocitySource, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("interest store is required")
	}
	if reciprocity == nil {
		return nil, fmt.Errorf("reciprocity source is required")
	}

	svc := &Service{store: store, reciprocity: reciprocity}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Express records, replaces, or toggles-off an intent toward a candidate.
// The cap is the tier-invariant constant; no caller may widen it.
func (s *Service) Express(ctx context.Context, couple, candidate id.CoupleID, intent id.Intent) (interest.Outcome, error) {
	if couple.IsNil() || candidate.IsNil() {
		return "", dErrors.New(dErrors.CodeValidation, "couple and candidate are required")
	}
	if couple == candidate {
		return "", dErrors.New(dErrors.CodeValidation, "cannot express interest in yourself")
	}
	if !intent.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid intent")
	}

	outcome, err := s.store.Express(ctx, couple, candidate, intent, id.InterestLimit)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to express intent")
	}

	switch outcome {
	case interest.OutcomeAccepted:
		if s.metrics != nil {
			s.metrics.Expressed.Inc()
		}
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventIntentExpressed, couple, candidate.String(), intent.String())
	case interest.OutcomeRetracted:
		if s.metrics != nil {
			s.metrics.Retracted.Inc()
		}
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventIntentRetracted, couple, candidate.String(), intent.String())
	case interest.OutcomeCapReached:
		if s.metrics != nil {
			s.metrics.CapReached.Inc()
		}
		audit.LogEmit(ctx, s.logger, s.auditor, audit.EventIntentCapReached, couple, candidate.String(), "")
	}

	return outcome, nil
}

// List returns the couple's live ledger entries.
func (s *Service) List(ctx context.Context, couple id.CoupleID) ([]interest.Record, error) {
	records, err := s.store.List(ctx, couple)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list intents")
	}
	return records, nil
}

// LiveCount returns the number of live entries for a couple.
func (s *Service) LiveCount(ctx context.Context, couple id.CoupleID) (int, error) {
	n, err := s.store.Count(ctx, couple)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count intents")
	}
	return n, nil
}

// HasMutualInterest is true only when the viewer has an outstanding
// expression toward the candidate and the candidate is independently known
// to have reciprocated.
func (s *Service) HasMutualInterest(ctx context.Context, viewer, candidate id.CoupleID) (bool, error) {
	rec, err := s.store.Get(ctx, viewer, candidate)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger")
	}
	if rec == nil {
		return false, nil
	}
	reciprocated, err := s.reciprocity.HasReciprocated(ctx, candidate, viewer)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check reciprocity")
	}
	return reciprocated, nil
}
