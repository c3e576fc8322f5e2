package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandem/internal/confirm"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

type fixedChecks struct {
	inScope   bool
	mutual    bool
	context   bool
	confirmed bool

	lastKey confirm.Key
}

func (f *fixedChecks) InScopeFor(context.Context, id.CoupleID, id.CoupleID) (bool, error) {
	return f.inScope, nil
}

func (f *fixedChecks) HasMutualInterest(context.Context, id.CoupleID, id.CoupleID) (bool, error) {
	return f.mutual, nil
}

func (f *fixedChecks) SharedContext(context.Context, id.CoupleID, id.CoupleID) (bool, error) {
	return f.context, nil
}

func (f *fixedChecks) IsConfirmed(_ context.Context, key confirm.Key) (bool, error) {
	f.lastKey = key
	return f.confirmed, nil
}

func newGate(t *testing.T, checks *fixedChecks) *Service {
	t.Helper()
	svc, err := New(checks, checks, checks, checks)
	require.NoError(t, err)
	return svc
}

func TestCanMessageValidation(t *testing.T) {
	svc := newGate(t, &fixedChecks{})
	ctx := context.Background()

	_, err := svc.CanMessage(ctx, "", "couple-b")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = svc.CanMessage(ctx, "couple-a", "couple-a")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCanMessageUnlocked(t *testing.T) {
	checks := &fixedChecks{inScope: true, mutual: true, context: true, confirmed: true}
	svc := newGate(t, checks)

	res, err := svc.CanMessage(context.Background(), "couple-a", "couple-b")
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
	assert.Equal(t, ReasonNone, res.Blocking)
	assert.Equal(t, confirm.Key{
		Couple: "couple-a",
		Kind:   confirm.KindMessaging,
		Target: "couple-b",
	}, checks.lastKey, "the latch is keyed on the viewer's messaging action toward the candidate")
}

func TestCanMessageBlockingOrder(t *testing.T) {
	cases := []struct {
		name   string
		checks fixedChecks
		want   Reason
	}{
		{"location first", fixedChecks{}, ReasonLocation},
		{"interest after location", fixedChecks{inScope: true}, ReasonInterest},
		{"context after interest", fixedChecks{inScope: true, mutual: true}, ReasonContext},
		{"confirmation last", fixedChecks{inScope: true, mutual: true, context: true}, ReasonConfirmation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newGate(t, &tc.checks)
			res, err := svc.CanMessage(context.Background(), "couple-a", "couple-b")
			require.NoError(t, err)
			assert.False(t, res.Unlocked)
			assert.Equal(t, tc.want, res.Blocking)
		})
	}
}

// A pending confirmation must surface as the blocking reason when every
// earlier check passes.
func TestPendingConfirmationIsTheBlockingReason(t *testing.T) {
	checks := &fixedChecks{inScope: true, mutual: true, context: true, confirmed: false}
	svc := newGate(t, checks)

	res, err := svc.CanMessage(context.Background(), "couple-a", "couple-b")
	require.NoError(t, err)
	assert.True(t, res.LocationOK)
	assert.True(t, res.MutualInterest)
	assert.True(t, res.SharedContext)
	assert.False(t, res.DualConfirmed)
	assert.False(t, res.Unlocked)
	assert.Equal(t, ReasonConfirmation, res.Blocking)
}
