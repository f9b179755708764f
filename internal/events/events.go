package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeKind names which part of a store changed.
type ChangeKind string

// Change kinds. They match the snapshot kinds pushed to realtime clients.
const (
	KindItems     ChangeKind = "items"
	KindFrontRoom ChangeKind = "frontroom"
	KindGachapon  ChangeKind = "gachapon"
	KindSettings  ChangeKind = "settings"
)

// Kinds lists every change kind.
var Kinds = []ChangeKind{KindItems, KindFrontRoom, KindGachapon, KindSettings}

// IsValid reports whether k is a known kind.
func (k ChangeKind) IsValid() bool {
	switch k {
	case KindItems, KindFrontRoom, KindGachapon, KindSettings:
		return true
	default:
		return false
	}
}

// Affected returns the snapshot kinds that go stale when k changes. Both
// displays are projected from item state, so an items change also
// invalidates them.
func (k ChangeKind) Affected() []ChangeKind {
	if k == KindItems {
		return []ChangeKind{KindItems, KindFrontRoom, KindGachapon}
	}
	return []ChangeKind{k}
}

// ChangeEvent reports that data of one kind changed in one store.
// It carries no data; listeners reload what they need.
type ChangeEvent struct {
	StoreID    uuid.UUID  `json:"store_id"`
	Kind       ChangeKind `json:"kind"`
	OccurredAt time.Time  `json:"-"`
}

// NewChangeEvent creates a ChangeEvent stamped with the current time.
func NewChangeEvent(storeID uuid.UUID, kind ChangeKind) *ChangeEvent {
	return &ChangeEvent{
		StoreID:    storeID,
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeChangeEvent parses a change notification payload of the form
// {"store_id": "...", "kind": "..."}.
func DecodeChangeEvent(payload string) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("invalid change payload: %w", err)
	}
	if event.StoreID == uuid.Nil {
		return nil, fmt.Errorf("invalid change payload: missing store_id")
	}
	if !event.Kind.IsValid() {
		return nil, fmt.Errorf("invalid change payload: unknown kind %q", event.Kind)
	}
	event.OccurredAt = time.Now().UTC()
	return &event, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This lets the change listener publish without knowing who consumes.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ChangeEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *ChangeEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	return f(ctx, event)
}
