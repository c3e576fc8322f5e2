package gate

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tandem/internal/confirm"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// ScopeChecker answers whether the candidate falls inside the viewer's
// configured discovery scope.
type ScopeChecker interface {
	InScopeFor(ctx context.Context, viewer, candidate id.CoupleID) (bool, error)
}

// InterestChecker answers whether interest runs both ways.
type InterestChecker interface {
	HasMutualInterest(ctx context.Context, viewer, candidate id.CoupleID) (bool, error)
}

// ContextChecker answers whether the two couples co-inhabit a lounge or
// event.
type ContextChecker interface {
	SharedContext(ctx context.Context, a, b id.CoupleID) (bool, error)
}

// ConfirmationReader answers whether a confirmation key has latched.
type ConfirmationReader interface {
	IsConfirmed(ctx context.Context, key confirm.Key) (bool, error)
}

type Service struct {
	scope    ScopeChecker
	interest InterestChecker
	shared   ContextChecker
	confirms ConfirmationReader

	logger *slog.Logger
	tracer trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(scope ScopeChecker, interest InterestChecker, shared ContextChecker, confirms ConfirmationReader, opts ...Option) (*Service, error) {
	if scope == nil || interest == nil || shared == nil || confirms == nil {
		return nil, fmt.Errorf("all gate checkers are required")
	}
	svc := &Service{
		scope:    scope,
		interest: interest,
		shared:   shared,
		confirms: confirms,
		tracer:   otel.Tracer("tandem/gate"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CanMessage runs the gate checks in their fixed order: location, mutual
// interest, shared context, then the confirmation latch. The order matters
// for user-facing messaging; there is no point prompting for interest when
// the candidate is out of scope. The confirmation is keyed on the viewer's
// messaging action toward the candidate.
func (s *Service) CanMessage(ctx context.Context, viewer, candidate id.CoupleID) (Result, error) {
	if viewer.IsNil() || candidate.IsNil() {
		return Result{}, dErrors.New(dErrors.CodeValidation, "viewer and candidate are required")
	}
	if viewer == candidate {
		return Result{}, dErrors.New(dErrors.CodeValidation, "cannot message yourself")
	}

	ctx, span := s.tracer.Start(ctx, "gate.CanMessage",
		trace.WithAttributes(
			attribute.String("viewer", viewer.String()),
			attribute.String("candidate", candidate.String()),
		))
	defer span.End()

	var res Result
	var err error

	res.LocationOK, err = s.scope.InScopeFor(ctx, viewer, candidate)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check scope")
	}
	if !res.LocationOK {
		return s.blocked(ctx, span, res, ReasonLocation), nil
	}

	res.MutualInterest, err = s.interest.HasMutualInterest(ctx, viewer, candidate)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check mutual interest")
	}
	if !res.MutualInterest {
		return s.blocked(ctx, span, res, ReasonInterest), nil
	}

	res.SharedContext, err = s.shared.SharedContext(ctx, viewer, candidate)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check shared context")
	}
	if !res.SharedContext {
		return s.blocked(ctx, span, res, ReasonContext), nil
	}

	key := confirm.Key{Couple: viewer, Kind: confirm.KindMessaging, Target: candidate.String()}
	res.DualConfirmed, err = s.confirms.IsConfirmed(ctx, key)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check confirmation")
	}
	if !res.DualConfirmed {
		return s.blocked(ctx, span, res, ReasonConfirmation), nil
	}

	res.Unlocked = true
	span.SetAttributes(attribute.Bool("unlocked", true))
	return res, nil
}

func (s *Service) blocked(ctx context.Context, span trace.Span, res Result, reason Reason) Result {
	res.Blocking = reason
	span.SetAttributes(
		attribute.Bool("unlocked", false),
		attribute.String("blocking", string(reason)),
	)
	if s.logger != nil {
		s.logger.DebugContext(ctx, "messaging gate blocked", "reason", reason)
	}
	return res
}
