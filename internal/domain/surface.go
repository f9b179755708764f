package domain

import (
	"time"

	"github.com/google/uuid"
)

// Surface names a place where stocked items are displayed.
type Surface string

// Display surfaces.
const (
	SurfaceFrontRoom Surface = "frontroom"
	SurfaceGachapon  Surface = "gachapon"
)

// IsValid reports whether s is a known surface.
func (s Surface) IsValid() bool {
	return s == SurfaceFrontRoom || s == SurfaceGachapon
}

// Display is the saved list of item IDs currently shown on a surface.
type Display struct {
	StoreID   uuid.UUID   `json:"store_id"`
	Surface   Surface     `json:"surface"`
	ItemIDs   []uuid.UUID `json:"item_ids"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewDisplay builds a display, collapsing duplicate IDs while keeping the
// first occurrence's position.
func NewDisplay(storeID uuid.UUID, surface Surface, ids []uuid.UUID) (*Display, error) {
	if storeID == uuid.Nil {
		return nil, NewValidationError("store_id", "cannot be empty", ErrInvalidID)
	}
	if !surface.IsValid() {
		return nil, NewValidationError("surface", "must be frontroom or gachapon", ErrInvalidSurface)
	}
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, NewValidationError("item_ids", "cannot contain an empty ID", ErrInvalidID)
		}
	}
	return &Display{
		StoreID:   storeID,
		Surface:   surface,
		ItemIDs:   dedupeIDs(ids),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// EmptyDisplay is what a surface reads as before anything is saved.
func EmptyDisplay(storeID uuid.UUID, surface Surface) *Display {
	return &Display{
		StoreID: storeID,
		Surface: surface,
		ItemIDs: []uuid.UUID{},
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
