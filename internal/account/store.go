package account

import (
	"context"

	id "tandem/pkg/domain"
)

// Store persists accounts. Get resolves a missing couple to nil.
type Store interface {
	Create(ctx context.Context, a Account) error
	Get(ctx context.Context, couple id.CoupleID) (*Account, error)
	Update(ctx context.Context, a Account) error
}
