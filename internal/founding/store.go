package founding

import (
	"context"

	id "tandem/pkg/domain"
)

// Store owns the token pool, the global granted counter, and per-couple
// access state. The pool and counter are process-wide mutable resources;
// implementations must make ConsumeToken and IncrementGranted atomic so
// concurrent redemptions cannot over-admit past the cap.
type Store interface {
	// SeedTokens adds tokens to the pool. Seeding an already-present token
	// is a no-op.
	SeedTokens(ctx context.Context, tokens ...string) error

	// ConsumeToken removes the token from the pool if it exists and the
	// granted count is still below cap. Returns false, without side effect,
	// for an unknown or already-consumed token or an exhausted pool.
	ConsumeToken(ctx context.Context, token string, cap int) (bool, error)

	// IncrementGranted bumps the monotonic grant counter and returns the
	// new value. Called when access activates, not at redemption.
	IncrementGranted(ctx context.Context) (int, error)

	// GrantedCount returns the current grant counter.
	GrantedCount(ctx context.Context) (int, error)

	// State returns the couple's access state. A couple with no recorded
	// state resolves to the zero value, not an error.
	State(ctx context.Context, couple id.CoupleID) (AccessState, error)

	// SaveState replaces the couple's access state.
	SaveState(ctx context.Context, couple id.CoupleID, state AccessState) error
}
