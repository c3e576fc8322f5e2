package cosign

import (
	"context"

	id "tandem/pkg/domain"
)

// DraftKey addresses the single draft slot per couple and target.
type DraftKey struct {
	Couple id.CoupleID
	Kind   Kind
	Target string
}

// Store persists drafts and ratified records. Missing drafts resolve to
// nil, never an error.
type Store interface {
	PutDraft(ctx context.Context, d Draft) error
	GetDraft(ctx context.Context, key DraftKey) (*Draft, error)
	DeleteDraft(ctx context.Context, key DraftKey) error

	AppendRecord(ctx context.Context, r Record) error
	// ListRecords returns every record for a target, visible or not.
	// Visibility filtering is the service's concern.
	ListRecords(ctx context.Context, kind Kind, target string) ([]Record, error)
	ListByCouple(ctx context.Context, couple id.CoupleID) ([]Record, error)
}
