package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tandem/internal/discovery"
	"tandem/internal/region"
	"tandem/pkg/audit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

// FoundingAccess is the slice of the founding engine signup consults:
// token redemption at registration and the active flag for limit
// resolution.
type FoundingAccess interface {
	Redeem(ctx context.Context, couple id.CoupleID, token string) (bool, error)
	IsActive(ctx context.Context, couple id.CoupleID) (bool, error)
}

type Service struct {
	store    Store
	graph    *region.Graph
	filter   *discovery.Service
	founding FoundingAccess

	logger  *slog.Logger
	auditor audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub audit.Publisher) Option {
	return func(s *Service) { s.auditor = pub }
}

// WithFoundingAccess wires token redemption into signup. Without it,
// tokens submitted at signup are ignored.
func WithFoundingAccess(f FoundingAccess) Option {
	return func(s *Service) { s.founding = f }
}

func New(store Store, graph *region.Graph, filter *discovery.Service, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if graph == nil {
		return nil, fmt.Errorf("region graph is required")
	}
	if filter == nil {
		return nil, fmt.Errorf("discovery filter is required")
	}
	svc := &Service{store: store, graph: graph, filter: filter}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterParams is the signup payload. Zero Scope defaults to local and
// zero Tier to free.
type RegisterParams struct {
	Couple        id.CoupleID
	DisplayName   string
	City          string
	State         string
	Scope         id.Scope
	CrossBorder   bool
	Tier          id.Tier
	Partner1Age   int
	Partner2Age   int
	FoundingToken string
}

// Register creates the couple's account, resolving its location through
// the region graph. An unrecognized city still registers; it just resolves
// to an unmapped location that the scope filter treats fail-open. A
// founding token, when present and valid, marks the couple eligible; an
// invalid one is silently ignored, matching the low-ceremony redemption
// contract. The second return reports whether a token was redeemed.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*Account, bool, error) {
	if p.Couple.IsNil() {
		return nil, false, dErrors.New(dErrors.CodeValidation, "couple is required")
	}
	if strings.TrimSpace(p.City) == "" {
		return nil, false, dErrors.New(dErrors.CodeValidation, "city is required")
	}
	scope := p.Scope
	if scope == "" {
		scope = id.ScopeLocal
	}
	if !scope.IsValid() {
		return nil, false, dErrors.New(dErrors.CodeValidation, "invalid scope")
	}
	tier := p.Tier
	if tier == "" {
		tier = id.TierFree
	}
	if !tier.IsValid() {
		return nil, false, dErrors.New(dErrors.CodeValidation, "invalid tier")
	}
	if p.Partner1Age < 0 || p.Partner2Age < 0 {
		return nil, false, dErrors.New(dErrors.CodeValidation, "ages cannot be negative")
	}

	a := Account{
		ID:          p.Couple,
		DisplayName: strings.TrimSpace(p.DisplayName),
		Location:    s.graph.Resolve(p.City, p.State),
		Scope:       scope,
		CrossBorder: p.CrossBorder,
		Tier:        tier,
		Partner1Age: p.Partner1Age,
		Partner2Age: p.Partner2Age,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, a); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, false, err
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	redeemed := false
	if s.founding != nil && strings.TrimSpace(p.FoundingToken) != "" {
		var err error
		redeemed, err = s.founding.Redeem(ctx, a.ID, p.FoundingToken)
		if err != nil {
			return nil, false, err
		}
	}

	audit.LogEmit(ctx, s.logger, s.auditor, audit.EventCoupleRegistered, a.ID, a.Location.Region, string(a.Tier))
	return &a, redeemed, nil
}

// Get returns the couple's account or a not-found error.
func (s *Service) Get(ctx context.Context, couple id.CoupleID) (*Account, error) {
	a, err := s.store.Get(ctx, couple)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read account")
	}
	if a == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "couple not registered")
	}
	return a, nil
}

// EffectiveLimits resolves the couple's limits: the tier table, upgraded
// to the premium windows when founding access is active. The interest cap
// never changes.
func (s *Service) EffectiveLimits(ctx context.Context, couple id.CoupleID) (id.Limits, error) {
	a, err := s.Get(ctx, couple)
	if err != nil {
		return id.Limits{}, err
	}
	if s.founding != nil {
		active, err := s.founding.IsActive(ctx, couple)
		if err != nil {
			return id.Limits{}, err
		}
		if active {
			return id.TierPremium.Limits(), nil
		}
	}
	return a.Tier.Limits(), nil
}

// InScopeFor runs the scope filter over two registered couples using the
// viewer's preferences. An unregistered candidate is simply out of scope;
// an unregistered viewer is an error since the caller is authenticated.
func (s *Service) InScopeFor(ctx context.Context, viewer, candidate id.CoupleID) (bool, error) {
	v, err := s.Get(ctx, viewer)
	if err != nil {
		return false, err
	}
	c, err := s.store.Get(ctx, candidate)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read account")
	}
	if c == nil {
		return false, nil
	}
	return s.filter.InScope(v.Location, c.Location, v.Scope, v.CrossBorder), nil
}

// Compatible combines the scope filter with the partner age rule. Used
// for discovery browsing, not by the messaging gate.
func (s *Service) Compatible(ctx context.Context, viewer, candidate id.CoupleID) (bool, error) {
	ok, err := s.InScopeFor(ctx, viewer, candidate)
	if err != nil || !ok {
		return false, err
	}
	v, err := s.Get(ctx, viewer)
	if err != nil {
		return false, err
	}
	c, err := s.store.Get(ctx, candidate)
	if err != nil || c == nil {
		return false, err
	}
	return discovery.AgesCompatible(v.Partner1Age, v.Partner2Age, c.Partner1Age, c.Partner2Age), nil
}

// EventVisibleFor evaluates event visibility for a registered viewer. The
// event's own city and state resolve through the same graph as profiles.
func (s *Service) EventVisibleFor(ctx context.Context, viewer id.CoupleID, class discovery.EventClass, city, state string) (bool, error) {
	v, err := s.Get(ctx, viewer)
	if err != nil {
		return false, err
	}
	eventLoc := s.graph.Resolve(city, state)
	return s.filter.EventVisible(class, eventLoc, v.Location, v.Scope, v.CrossBorder), nil
}

// SetTravelWindow attaches an upcoming-visit window to the account.
func (s *Service) SetTravelWindow(ctx context.Context, couple id.CoupleID, w TravelWindow) error {
	if strings.TrimSpace(w.City) == "" {
		return dErrors.New(dErrors.CodeValidation, "city is required")
	}
	if !w.Departure.After(w.Arrival) {
		return dErrors.New(dErrors.CodeValidation, "departure must follow arrival")
	}
	a, err := s.Get(ctx, couple)
	if err != nil {
		return err
	}
	a.Travel = &w
	if err := s.store.Update(ctx, *a); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return nil
}

// ClearTravelWindow removes the window. A no-op when none is set.
func (s *Service) ClearTravelWindow(ctx context.Context, couple id.CoupleID) error {
	a, err := s.Get(ctx, couple)
	if err != nil {
		return err
	}
	if a.Travel == nil {
		return nil
	}
	a.Travel = nil
	if err := s.store.Update(ctx, *a); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return nil
}
