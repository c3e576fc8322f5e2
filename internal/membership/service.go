package membership

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("membership store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) Join(ctx context.Context, couple id.CoupleID, kind ContextKind, target string) error {
	if err := validate(couple, kind, target); err != nil {
		return err
	}
	if err := s.store.Join(ctx, Membership{Couple: couple, Kind: kind, Target: strings.TrimSpace(target)}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to join")
	}
	return nil
}

func (s *Service) Leave(ctx context.Context, couple id.CoupleID, kind ContextKind, target string) error {
	if err := validate(couple, kind, target); err != nil {
		return err
	}
	if err := s.store.Leave(ctx, Membership{Couple: couple, Kind: kind, Target: strings.TrimSpace(target)}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to leave")
	}
	return nil
}

func (s *Service) List(ctx context.Context, couple id.CoupleID) ([]Membership, error) {
	out, err := s.store.List(ctx, couple)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list memberships")
	}
	return out, nil
}

// SharedContext reports whether two couples co-inhabit at least one lounge
// or event.
func (s *Service) SharedContext(ctx context.Context, a, b id.CoupleID) (bool, error) {
	mine, err := s.store.List(ctx, a)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list memberships")
	}
	for _, m := range mine {
		shared, err := s.store.IsMember(ctx, b, m.Kind, m.Target)
		if err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check membership")
		}
		if shared {
			return true, nil
		}
	}
	return false, nil
}

func validate(couple id.CoupleID, kind ContextKind, target string) error {
	if couple.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "couple is required")
	}
	if kind != ContextLounge && kind != ContextEvent {
		return dErrors.New(dErrors.CodeValidation, "invalid membership kind")
	}
	if strings.TrimSpace(target) == "" {
		return dErrors.New(dErrors.CodeValidation, "target is required")
	}
	return nil
}
