// Package realtime pushes store snapshots to connected dashboards over
// websockets whenever the underlying data changes.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/events"
)

// SubscriberObserver is told when websocket subscribers come and go.
type SubscriberObserver interface {
	SubscriberAdded()
	SubscriberRemoved()
}

// Subscription receives change notifications for one store. Notifications
// coalesce: while the subscriber is busy, repeated changes of a kind
// collapse into one pending kind, so a slow client never blocks dispatch.
type Subscription struct {
	StoreID uuid.UUID

	notify  chan struct{}
	mu      sync.Mutex
	pending map[events.ChangeKind]struct{}
}

func newSubscription(storeID uuid.UUID) *Subscription {
	return &Subscription{
		StoreID: storeID,
		notify:  make(chan struct{}, 1),
		pending: make(map[events.ChangeKind]struct{}),
	}
}

// Notify is signalled when at least one kind is pending.
func (s *Subscription) Notify() <-chan struct{} {
	return s.notify
}

// Drain returns the pending kinds in events.Kinds order and clears them.
func (s *Subscription) Drain() []events.ChangeKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := make([]events.ChangeKind, 0, len(s.pending))
	for _, k := range events.Kinds {
		if _, ok := s.pending[k]; ok {
			kinds = append(kinds, k)
		}
	}
	clear(s.pending)
	return kinds
}

func (s *Subscription) mark(kinds ...events.ChangeKind) {
	s.mu.Lock()
	for _, k := range kinds {
		s.pending[k] = struct{}{}
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Hub fans change events out to the subscriptions of the affected store.
type Hub struct {
	mu       sync.RWMutex
	subs     map[uuid.UUID]map[*Subscription]struct{}
	observer SubscriberObserver
	logger   *slog.Logger
}

var _ events.EventHandler = (*Hub)(nil)

// NewHub creates a Hub. observer may be nil.
func NewHub(observer SubscriberObserver, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:     make(map[uuid.UUID]map[*Subscription]struct{}),
		observer: observer,
		logger:   logger.With(slog.String("component", "realtime_hub")),
	}
}

// Subscribe registers a subscription for storeID. Callers must
// Unsubscribe when done.
func (h *Hub) Subscribe(storeID uuid.UUID) *Subscription {
	sub := newSubscription(storeID)

	h.mu.Lock()
	set, ok := h.subs[storeID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[storeID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	if h.observer != nil {
		h.observer.SubscriberAdded()
	}
	h.logger.Debug("subscriber added", slog.String("store_id", storeID.String()))
	return sub
}

// Unsubscribe removes sub. Removing twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	set, ok := h.subs[sub.StoreID]
	_, present := set[sub]
	if ok && present {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.StoreID)
		}
	}
	h.mu.Unlock()

	if !present {
		return
	}
	if h.observer != nil {
		h.observer.SubscriberRemoved()
	}
	h.logger.Debug("subscriber removed", slog.String("store_id", sub.StoreID.String()))
}

// Subscribers returns the number of live subscriptions for storeID.
func (h *Hub) Subscribers(storeID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[storeID])
}

// HandleEvent marks every kind affected by the event pending on each
// subscription of the store. It never blocks on subscribers.
func (h *Hub) HandleEvent(ctx context.Context, event *events.ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.StoreID] {
		sub.mark(event.Kind.Affected()...)
	}
	return nil
}
