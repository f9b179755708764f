package realtime

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	live atomic.Int64
}

func (o *countingObserver) SubscriberAdded()   { o.live.Add(1) }
func (o *countingObserver) SubscriberRemoved() { o.live.Add(-1) }

func TestHubCoalescesPerStore(t *testing.T) {
	ctx := context.Background()
	observer := &countingObserver{}
	hub := NewHub(observer, nil)
	storeID, otherStore := uuid.New(), uuid.New()

	sub := hub.Subscribe(storeID)
	other := hub.Subscribe(otherStore)
	assert.Equal(t, int64(2), observer.live.Load())

	for range 5 {
		require.NoError(t, hub.HandleEvent(ctx, events.NewChangeEvent(storeID, events.KindSettings)))
	}
	require.NoError(t, hub.HandleEvent(ctx, events.NewChangeEvent(storeID, events.KindItems)))

	select {
	case <-sub.Notify():
	default:
		t.Fatal("expected a pending notification")
	}
	assert.Equal(t, events.Kinds, sub.Drain())
	assert.Empty(t, sub.Drain())

	select {
	case <-other.Notify():
		t.Fatal("other store must not be notified")
	default:
	}

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(other)
	assert.Equal(t, int64(0), observer.live.Load())
	assert.Zero(t, hub.Subscribers(storeID))

	require.NoError(t, hub.HandleEvent(ctx, events.NewChangeEvent(storeID, events.KindItems)))
}

func TestHubNeverBlocksOnSlowSubscribers(t *testing.T) {
	hub := NewHub(nil, nil)
	storeID := uuid.New()
	sub := hub.Subscribe(storeID)
	defer hub.Unsubscribe(sub)

	for i := range 1000 {
		kind := events.Kinds[i%len(events.Kinds)]
		require.NoError(t, hub.HandleEvent(context.Background(), events.NewChangeEvent(storeID, kind)))
	}
	assert.Len(t, sub.Notify(), 1)
	assert.Equal(t, events.Kinds, sub.Drain())
}

func TestHubWidensItemChanges(t *testing.T) {
	hub := NewHub(nil, nil)
	storeID := uuid.New()
	sub := hub.Subscribe(storeID)
	defer hub.Unsubscribe(sub)

	require.NoError(t, hub.HandleEvent(context.Background(), events.NewChangeEvent(storeID, events.KindItems)))
	assert.Equal(t, []events.ChangeKind{events.KindItems, events.KindFrontRoom, events.KindGachapon}, sub.Drain())

	require.NoError(t, hub.HandleEvent(context.Background(), events.NewChangeEvent(storeID, events.KindSettings)))
	assert.Equal(t, []events.ChangeKind{events.KindSettings}, sub.Drain())
}
