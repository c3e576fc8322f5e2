// Package service orchestrates founding access: low-ceremony token
// redemption, the one-shot activation watcher, and the acknowledgment
// bookkeeping behind the one-time notice.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"tandem/internal/founding"
	"tandem/internal/founding/metrics"
	"tandem/pkg/audit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// ConfirmReader answers whether the couple has at least one confirmed
// dual-confirmation action of any kind.
type ConfirmReader interface {
	HasConfirmed(ctx context.Context, couple id.CoupleID) (bool, error)
}

// InterestCounter reports the couple's live ledger entry count.
type InterestCounter interface {
	LiveCount(ctx context.Context, couple id.CoupleID) (int, error)
}

// TenurePredicate reports whether the couple meets the minimum account
// tenure for token redemption. A nil predicate skips the check entirely;
// enforcement is a deployment decision, not something this engine invents.
type TenurePredicate func(ctx context.Context, couple id.CoupleID) (bool, error)

type Service struct {
	store     founding.Store
	confirms  ConfirmReader
	interests InterestCounter
	tenure    TenurePredicate

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

// WithTenurePredicate installs minimum-tenure enforcement. Without it,
// redemption skips the tenure check.
func WithTenurePredicate(p TenurePredicate) Option {
	return func(s *Service) { s.tenure = p }
}

func New(store founding.Store, confirms ConfirmReader, interests InterestCounter, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("founding store is required")
	}
	if confirms == nil {
		return nil, fmt.Errorf("confirmation reader is required")
	}
	if interests == nil {
		return nil, fmt.Errorf("interest counter is required")
	}

	svc := &Service{store: store, confirms: confirms, interests: interests}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Redeem consumes an invitation token and marks the couple eligible.
// Invalid input never surfaces as an error: an unknown token, a consumed
// token, an exhausted pool, or a failed tenure check all return false with
// no side effect. Redemption is deliberately low-ceremony.
func (s *Service) Redeem(ctx context.Context, couple id.CoupleID, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if couple.IsNil() || token == "" {
		return false, nil
	}

	if s.tenure != nil {
		ok, err := s.tenure(ctx, couple)
		if err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check tenure")
		}
		if !ok {
			s.reject()
			return false, nil
		}
	}

	consumed, err := s.store.ConsumeToken(ctx, token, founding.Cap)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume token")
	}
	if !consumed {
		s.reject()
		return false, nil
	}

	state, err := s.store.State(ctx, couple)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access state")
	}
	state.Eligible = true
	if err := s.store.SaveState(ctx, couple, state); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save access state")
	}

	if s.metrics != nil {
		s.metrics.TokensRedeemed.Inc()
	}
	audit.LogEmit(ctx, s.logger, s.auditor, audit.EventTokenRedeemed, couple, "", "")
	return true, nil
}

// CheckActivation upgrades an eligible couple to active access once both
// engagement conditions hold: at least one confirmed action and at least
// one live ledger entry. The upgrade fires at most once; after activation
// (or for an ineligible couple) the call is a cheap no-op reporting the
// current active flag. Activation sticks even if the conditions are later
// undone.
func (s *Service) CheckActivation(ctx context.Context, couple id.CoupleID) (bool, error) {
	if couple.IsNil() {
		return false, dErrors.New(dErrors.CodeValidation, "couple is required")
	}

	state, err := s.store.State(ctx, couple)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access state")
	}
	if !state.Eligible || state.Active {
		return state.Active, nil
	}

	confirmed, err := s.confirms.HasConfirmed(ctx, couple)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check confirmations")
	}
	if !confirmed {
		return false, nil
	}
	live, err := s.interests.LiveCount(ctx, couple)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count interests")
	}
	if live == 0 {
		return false, nil
	}

	state.Active = true
	if err := s.store.SaveState(ctx, couple, state); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save access state")
	}
	granted, err := s.store.IncrementGranted(ctx)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment grant counter")
	}

	if s.metrics != nil {
		s.metrics.AccessActivated.Inc()
		s.metrics.GrantsOutstanding.Set(float64(granted))
	}
	audit.LogEmit(ctx, s.logger, s.auditor, audit.EventAccessActivated, couple, "", strconv.Itoa(granted))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "founding access activated",
			"couple_id", couple,
			"granted", granted,
		)
	}
	return true, nil
}

// Acknowledge records that the one-time activation notice was shown.
// Idempotent; a no-op unless access is active.
func (s *Service) Acknowledge(ctx context.Context, couple id.CoupleID) error {
	state, err := s.store.State(ctx, couple)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access state")
	}
	if !state.Active || state.Acknowledged {
		return nil
	}
	state.Acknowledged = true
	if err := s.store.SaveState(ctx, couple, state); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save access state")
	}
	audit.LogEmit(ctx, s.logger, s.auditor, audit.EventAccessAcknowledged, couple, "", "")
	return nil
}

// State returns the couple's current access state.
func (s *Service) State(ctx context.Context, couple id.CoupleID) (founding.AccessState, error) {
	state, err := s.store.State(ctx, couple)
	if err != nil {
		return founding.AccessState{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access state")
	}
	return state, nil
}

// IsActive reports whether founding access is live for the couple. Tier
// resolution consults this to apply the premium-equivalent TTL windows.
func (s *Service) IsActive(ctx context.Context, couple id.CoupleID) (bool, error) {
	state, err := s.State(ctx, couple)
	if err != nil {
		return false, err
	}
	return state.Active, nil
}

func (s *Service) reject() {
	if s.metrics != nil {
		s.metrics.RedeemsRejected.Inc()
	}
}
