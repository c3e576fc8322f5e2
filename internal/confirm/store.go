package confirm

import (
	"context"
	"time"

	id "tandem/pkg/domain"
)

// MutateFunc transforms an action under the store's per-key serialization.
// current is nil when the key is absent. Returning (nil, nil) deletes the
// record; returning an action persists it.
type MutateFunc func(current *Action) (*Action, error)

// Store is the action persistence boundary. Implementations must serialize
// all mutations per key (tap, retract, sweep) so concurrent taps from both
// partners cannot race to a lost update.
type Store interface {
	// Mutate runs fn as a serialized read-modify-write on one key and
	// returns the resulting action (nil when fn deleted it).
	Mutate(ctx context.Context, key Key, fn MutateFunc) (*Action, error)

	// Get returns the action for a key, or nil when absent.
	Get(ctx context.Context, key Key) (*Action, error)

	// ListByCouple returns all actions belonging to a couple.
	ListByCouple(ctx context.Context, couple id.CoupleID) ([]*Action, error)

	// SweepExpired transitions every pending action past its deadline to
	// expired and returns the affected keys. It must be idempotent and must
	// not disturb confirmed or already-expired entries.
	SweepExpired(ctx context.Context, now time.Time) ([]Key, error)

	// HasConfirmed reports whether the couple has at least one confirmed
	// action of any kind.
	HasConfirmed(ctx context.Context, couple id.CoupleID) (bool, error)
}
