package cosign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"tandem/pkg/audit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

type Service struct {
	store Store

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

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cosign store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Draft stages one partner's submission. A couple holds at most one draft
// per target; drafting again replaces it.
func (s *Service) Draft(ctx context.Context, couple id.CoupleID, partner id.Partner, kind Kind, target, content string, slot Slot) (*Draft, error) {
	target = strings.TrimSpace(target)
	content = strings.TrimSpace(content)
	if couple.IsNil() || target == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "couple and target are required")
	}
	if !partner.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid partner")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid kind")
	}
	if kind == KindLoungeResponse && content == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a lounge response needs content")
	}
	if kind == KindPlacePresence && slot == SlotNone {
		return nil, dErrors.New(dErrors.CodeValidation, "presence needs a time slot")
	}

	d := Draft{
		Couple:    couple,
		Kind:      kind,
		Target:    target,
		Content:   content,
		Slot:      slot,
		DraftedBy: partner,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.PutDraft(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return &d, nil
}

// Ratify turns the staged draft into a durable record stamped with both
// partners and clears the draft. In the normal flow the ratifier is the
// partner who did not draft; the engine records attribution but does not
// reject a same-partner ratification. A missing draft resolves to
// not-found.
func (s *Service) Ratify(ctx context.Context, couple id.CoupleID, partner id.Partner, kind Kind, target string) (*Record, error) {
	if !partner.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid partner")
	}
	key := DraftKey{Couple: couple, Kind: kind, Target: strings.TrimSpace(target)}
	d, err := s.store.GetDraft(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read draft")
	}
	if d == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no draft to ratify")
	}

	rec := Record{
		ID:         uuid.New(),
		Couple:     couple,
		Kind:       d.Kind,
		Target:     d.Target,
		Content:    d.Content,
		Slot:       d.Slot,
		DraftedBy:  d.DraftedBy,
		RatifiedBy: partner,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := s.store.AppendRecord(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append record")
	}
	if err := s.store.DeleteDraft(ctx, key); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear draft")
	}

	action := audit.EventResponsePosted
	if rec.Kind == KindPlacePresence {
		action = audit.EventPresencePosted
	}
	audit.LogEmit(ctx, s.logger, s.auditor, action, couple, rec.Target, rec.ID.String())
	return &rec, nil
}

// Discard drops a staged draft. Either partner may do this unilaterally;
// discarding an absent draft is a no-op.
func (s *Service) Discard(ctx context.Context, couple id.CoupleID, kind Kind, target string) error {
	key := DraftKey{Couple: couple, Kind: kind, Target: strings.TrimSpace(target)}
	if err := s.store.DeleteDraft(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard draft")
	}
	return nil
}

// PendingDraft returns the couple's staged draft for a target, or nil.
func (s *Service) PendingDraft(ctx context.Context, couple id.CoupleID, kind Kind, target string) (*Draft, error) {
	d, err := s.store.GetDraft(ctx, DraftKey{Couple: couple, Kind: kind, Target: strings.TrimSpace(target)})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read draft")
	}
	return d, nil
}

// Visible lists the still-visible records for a target at the request's
// clock: lounge responses younger than a week, presence inside its slot.
func (s *Service) Visible(ctx context.Context, kind Kind, target string) ([]Record, error) {
	recs, err := s.store.ListRecords(ctx, kind, strings.TrimSpace(target))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	now := requestcontext.Now(ctx)
	out := recs[:0:0]
	for _, r := range recs {
		if r.Visible(now) {
			out = append(out, r)
		}
	}
	return out, nil
}
