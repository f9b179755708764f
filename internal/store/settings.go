package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// SettingsStore persists per-store settings.
type SettingsStore interface {
	// Get returns the store's settings, or domain defaults when none are saved.
	Get(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error)

	// Save creates or replaces the store's settings.
	// Returns ErrSlugTaken if another store already uses the slug.
	Save(ctx context.Context, settings *domain.Settings) error

	// ResolveSlug returns the ID of the store that claimed slug.
	// Returns ErrSlugNotFound if no store did.
	ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error)
}
