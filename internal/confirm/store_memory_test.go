package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tandem/pkg/domain"
)

func testKey(target string) Key {
	return Key{Couple: "couple-a", Kind: KindMessaging, Target: target}
}

func pendingAction(key Key, createdAt time.Time, ttl time.Duration) *Action {
	return &Action{
		ID:                uuid.New(),
		Key:               key,
		Initiator:         id.Partner1,
		Partner1Confirmed: true,
		Status:            StatusPending,
		CreatedAt:         createdAt,
		TTL:               ttl,
	}
}

func TestInMemoryStore_Mutate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	key := testKey("t1")

	t.Run("create", func(t *testing.T) {
		a, err := store.Mutate(ctx, key, func(current *Action) (*Action, error) {
			require.Nil(t, current)
			return pendingAction(key, time.Now(), time.Hour), nil
		})
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, StatusPending, a.Status)
	})

	t.Run("delete via nil return", func(t *testing.T) {
		a, err := store.Mutate(ctx, key, func(current *Action) (*Action, error) {
			require.NotNil(t, current)
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, a)

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("mutations do not alias stored state", func(t *testing.T) {
		k := testKey("alias")
		_, err := store.Mutate(ctx, k, func(*Action) (*Action, error) {
			return pendingAction(k, time.Now(), time.Hour), nil
		})
		require.NoError(t, err)

		a, err := store.Get(ctx, k)
		require.NoError(t, err)
		a.Status = StatusConfirmed // caller-side mutation

		again, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, again.Status)
	})
}

func TestInMemoryStore_SweepExpired(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	stale := testKey("stale")
	fresh := testKey("fresh")
	done := testKey("done")

	_, err := store.Mutate(ctx, stale, func(*Action) (*Action, error) {
		return pendingAction(stale, now.Add(-2*time.Hour), time.Hour), nil
	})
	require.NoError(t, err)
	_, err = store.Mutate(ctx, fresh, func(*Action) (*Action, error) {
		return pendingAction(fresh, now, time.Hour), nil
	})
	require.NoError(t, err)
	_, err = store.Mutate(ctx, done, func(*Action) (*Action, error) {
		a := pendingAction(done, now.Add(-2*time.Hour), time.Hour)
		a.Partner2Confirmed = true
		a.Status = StatusConfirmed
		return a, nil
	})
	require.NoError(t, err)

	transitioned, err := store.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []Key{stale}, transitioned)

	t.Run("confirmed entries untouched", func(t *testing.T) {
		a, err := store.Get(ctx, done)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, a.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := store.SweepExpired(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, again)
	})
}

func TestInMemoryStore_HasConfirmed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	ok, err := store.HasConfirmed(ctx, "couple-a")
	require.NoError(t, err)
	assert.False(t, ok)

	key := testKey("confirm-me")
	_, err = store.Mutate(ctx, key, func(*Action) (*Action, error) {
		a := pendingAction(key, time.Now(), time.Hour)
		a.Partner2Confirmed = true
		a.Status = StatusConfirmed
		return a, nil
	})
	require.NoError(t, err)

	ok, err = store.HasConfirmed(ctx, "couple-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasConfirmed(ctx, "couple-b")
	require.NoError(t, err)
	assert.False(t, ok)
}
