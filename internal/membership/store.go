package membership

import (
	"context"

	id "tandem/pkg/domain"
)

// Store persists memberships. Join is idempotent; Leave of an absent
// membership is a no-op.
type Store interface {
	Join(ctx context.Context, m Membership) error
	Leave(ctx context.Context, m Membership) error
	List(ctx context.Context, couple id.CoupleID) ([]Membership, error)
	IsMember(ctx context.Context, couple id.CoupleID, kind ContextKind, target string) (bool, error)
}
