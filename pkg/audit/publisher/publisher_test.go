package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tandem/pkg/audit"
	"tandem/pkg/audit/store/memory"
	id "tandem/pkg/domain"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	coupleID := id.CoupleID("couple-sync")
	err := pub.Emit(context.Background(), audit.Event{
		CoupleID: coupleID,
		Action:   audit.EventIntentExpressed,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), coupleID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventIntentExpressed, events[0].Action)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	coupleID := id.CoupleID("couple-async")
	err := pub.Emit(context.Background(), audit.Event{
		CoupleID: coupleID,
		Action:   audit.EventActionConfirmed,
	})
	require.NoError(t, err)

	// Close flushes the buffer.
	pub.Close()

	events, err := pub.List(context.Background(), coupleID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventActionConfirmed, events[0].Action)
}

func TestPublisher_AsyncFullBufferFallsBackToSync(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	coupleID := id.CoupleID("couple-burst")
	for i := 0; i < 20; i++ {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			CoupleID:  coupleID,
			Action:    audit.EventActionCreated,
			Timestamp: time.Now(),
		}))
	}
	pub.Close()

	events, err := pub.List(context.Background(), coupleID)
	require.NoError(t, err)
	assert.Len(t, events, 20, "no event may be dropped under burst")
}
