package founding

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tandem/pkg/domain"
)

func TestConsumeToken(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes a seeded token once", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.SeedTokens(ctx, "alpha"))

		ok, err := store.ConsumeToken(ctx, "alpha", Cap)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.ConsumeToken(ctx, "alpha", Cap)
		require.NoError(t, err)
		assert.False(t, ok, "a token is single-use")
	})

	t.Run("unknown token is rejected without side effect", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.SeedTokens(ctx, "alpha"))

		ok, err := store.ConsumeToken(ctx, "bogus", Cap)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.ConsumeToken(ctx, "alpha", Cap)
		require.NoError(t, err)
		assert.True(t, ok, "pool must be untouched by the rejected attempt")
	})

	t.Run("exhausted pool rejects valid tokens", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.SeedTokens(ctx, "alpha"))
		for i := 0; i < Cap; i++ {
			_, err := store.IncrementGranted(ctx)
			require.NoError(t, err)
		}

		ok, err := store.ConsumeToken(ctx, "alpha", Cap)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestConsumeTokenConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.SeedTokens(ctx, "solo"))

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins int
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ok, err := store.ConsumeToken(ctx, "solo", Cap)
			if err != nil {
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one caller may consume a token")
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	couple := id.CoupleID("couple-1")

	state, err := store.State(ctx, couple)
	require.NoError(t, err)
	assert.Equal(t, AccessState{}, state, "unknown couple resolves to the zero state")

	want := AccessState{Eligible: true, Active: true}
	require.NoError(t, store.SaveState(ctx, couple, want))

	state, err = store.State(ctx, couple)
	require.NoError(t, err)
	assert.Equal(t, want, state)
}

func TestIncrementGrantedMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for i := 1; i <= 3; i++ {
		n, err := store.IncrementGranted(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, n, fmt.Sprintf("increment %d", i))
	}

	n, err := store.GrantedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
