package interest

import (
	"context"

	id "tandem/pkg/domain"
)

// Store is the ledger persistence boundary. Express must apply the
// check-then-mutate atomically per couple: toggle-retraction, the replace
// case, and the cap check may not interleave with a concurrent expression
// for the same couple.
type Store interface {
	// Express records, replaces, or retracts an intent under the cap.
	Express(ctx context.Context, couple, candidate id.CoupleID, intent id.Intent, limit int) (Outcome, error)

	// Get returns the live entry for a candidate, or nil when absent.
	Get(ctx context.Context, couple, candidate id.CoupleID) (*Record, error)

	// List returns all live entries for a couple.
	List(ctx context.Context, couple id.CoupleID) ([]Record, error)

	// Count returns the number of live entries for a couple.
	Count(ctx context.Context, couple id.CoupleID) (int, error)
}
