package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// DisplayStore persists the item IDs currently shown on each surface.
type DisplayStore interface {
	// Get returns the saved display. A surface that was never saved reads
	// as an empty display, not an error.
	Get(ctx context.Context, storeID uuid.UUID, surface domain.Surface) (*domain.Display, error)

	// Save replaces the saved item IDs for the display's surface.
	Save(ctx context.Context, display *domain.Display) error
}
