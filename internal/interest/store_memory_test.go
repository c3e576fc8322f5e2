package interest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tandem/pkg/domain"
)

func TestInMemoryStore_Express(t *testing.T) {
	ctx := context.Background()
	couple := id.CoupleID("couple-a")

	t.Run("accepts up to the cap", func(t *testing.T) {
		store := NewInMemoryStore()
		for i := 0; i < id.InterestLimit; i++ {
			out, err := store.Express(ctx, couple, candidateN(i), id.IntentSocial, id.InterestLimit)
			require.NoError(t, err)
			assert.Equal(t, OutcomeAccepted, out)
		}

		out, err := store.Express(ctx, couple, id.CoupleID("one-more"), id.IntentSocial, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCapReached, out)

		n, err := store.Count(ctx, couple)
		require.NoError(t, err)
		assert.Equal(t, id.InterestLimit, n)
	})

	t.Run("same intent toggles to retraction", func(t *testing.T) {
		store := NewInMemoryStore()
		candidate := id.CoupleID("couple-b")

		out, err := store.Express(ctx, couple, candidate, id.IntentMeeting, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAccepted, out)

		out, err = store.Express(ctx, couple, candidate, id.IntentMeeting, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRetracted, out)

		rec, err := store.Get(ctx, couple, candidate)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("retraction succeeds even at the cap", func(t *testing.T) {
		store := NewInMemoryStore()
		for i := 0; i < id.InterestLimit; i++ {
			_, err := store.Express(ctx, couple, candidateN(i), id.IntentSocial, id.InterestLimit)
			require.NoError(t, err)
		}

		out, err := store.Express(ctx, couple, candidateN(0), id.IntentSocial, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRetracted, out)

		// The freed slot is usable again.
		out, err = store.Express(ctx, couple, id.CoupleID("fresh"), id.IntentSocial, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAccepted, out)
	})

	t.Run("different intent replaces without cap check", func(t *testing.T) {
		store := NewInMemoryStore()
		for i := 0; i < id.InterestLimit; i++ {
			_, err := store.Express(ctx, couple, candidateN(i), id.IntentSocial, id.InterestLimit)
			require.NoError(t, err)
		}

		out, err := store.Express(ctx, couple, candidateN(2), id.IntentMeeting, id.InterestLimit)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAccepted, out)

		rec, err := store.Get(ctx, couple, candidateN(2))
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, id.IntentMeeting, rec.Intent)

		n, err := store.Count(ctx, couple)
		require.NoError(t, err)
		assert.Equal(t, id.InterestLimit, n)
	})
}

// TestInMemoryStore_CapUnderConcurrency drives many goroutines at one couple
// and verifies the live-entry count never exceeds the cap.
func TestInMemoryStore_CapUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	couple := id.CoupleID("concurrent-couple")

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := store.Express(ctx, couple, candidateN(i), id.IntentSocial, id.InterestLimit)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n, err := store.Count(ctx, couple)
	require.NoError(t, err)
	assert.Equal(t, id.InterestLimit, n, "cap must hold under concurrent expressions")
}

func candidateN(i int) id.CoupleID {
	return id.CoupleID(fmt.Sprintf("candidate-%d", i))
}
