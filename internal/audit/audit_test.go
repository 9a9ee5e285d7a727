package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	err := publisher.Emit(context.Background(), Event{
		PresentationID: "pid-1",
		Action:         ActionTransactionInitialized,
	})
	require.NoError(t, err)

	events, err := store.ListByPresentation(context.Background(), "pid-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewChannelPublisher(inbox)

	require.NoError(t, publisher.Emit(context.Background(), Event{PresentationID: "pid-1", Action: ActionTransactionInitialized}))
	require.NoError(t, publisher.Emit(context.Background(), Event{PresentationID: "pid-1", Action: ActionRequestObjectRetrieved}))

	assert.Len(t, inbox, 1)
	delivered := <-inbox
	assert.Equal(t, ActionTransactionInitialized, delivered.Action)
}

func TestWorkerPersistsUntilCancelled(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{PresentationID: "pid-1", Action: ActionTransactionInitialized}
	inbox <- Event{PresentationID: "pid-1", Action: ActionWalletResponseSubmitted}

	require.Eventually(t, func() bool {
		events, err := store.ListByPresentation(context.Background(), "pid-1")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
