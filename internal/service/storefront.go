package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// HTMLRenderer converts a Markdown description to safe HTML.
type HTMLRenderer interface {
	Render(source string) (string, error)
}

// PublicItem is an item as shown to storefront visitors. It carries no
// pin flag and marks purchased items as sold.
type PublicItem struct {
	ID              uuid.UUID
	Name            string
	Category        string
	CategoryNotes   string
	Rarity          domain.Rarity
	Description     string
	DescriptionHTML string
	Source          string
	Restrictions    string
	Attunement      bool
	Sold            bool
}

// Storefront is the public, read-only view of a store's front room.
type Storefront struct {
	StoreID  uuid.UUID
	ShopName string
	Slug     string
	Items    []PublicItem
}

// StorefrontService serves the public storefront.
type StorefrontService interface {
	// Storefront resolves ref, which may be a store ID, a settings slug or
	// a configured alias, and returns that store's current front room.
	Storefront(ctx context.Context, ref string) (*Storefront, error)
}

type storefrontServiceImpl struct {
	users    store.UserStore
	settings store.SettingsStore
	displays DisplayService
	renderer HTMLRenderer
	aliases  map[string]uuid.UUID
	logger   *slog.Logger
}

// NewStorefrontService creates a new StorefrontService. aliases maps public
// names to store IDs and may be nil.
func NewStorefrontService(
	users store.UserStore,
	settings store.SettingsStore,
	displays DisplayService,
	renderer HTMLRenderer,
	aliases map[string]uuid.UUID,
	logger *slog.Logger,
) (StorefrontService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if settings == nil {
		return nil, domain.NewValidationError("settings", "cannot be nil", domain.ErrValidation)
	}
	if displays == nil {
		return nil, domain.NewValidationError("displays", "cannot be nil", domain.ErrValidation)
	}
	if renderer == nil {
		return nil, domain.NewValidationError("renderer", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make(map[string]uuid.UUID, len(aliases))
	for name, id := range aliases {
		normalized[strings.ToLower(name)] = id
	}

	return &storefrontServiceImpl{
		users:    users,
		settings: settings,
		displays: displays,
		renderer: renderer,
		aliases:  normalized,
		logger:   logger.With(slog.String("component", "storefront_service")),
	}, nil
}

func (s *storefrontServiceImpl) Storefront(ctx context.Context, ref string) (*Storefront, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	storeID, err := s.resolve(ctx, ref)
	if err != nil {
		log.Debug("storefront not resolved", slog.String("ref", ref), slog.String("error", err.Error()))
		return nil, err
	}

	settings, err := s.settings.Get(ctx, storeID)
	if err != nil {
		return nil, NewServiceError("storefront", "get", err)
	}
	current, err := s.displays.Current(ctx, storeID, domain.SurfaceFrontRoom)
	if err != nil {
		return nil, err
	}

	front := &Storefront{
		StoreID:  storeID,
		ShopName: settings.ShopName,
		Slug:     settings.Slug,
		Items:    make([]PublicItem, 0, len(current)),
	}
	for _, item := range current {
		html, err := s.renderer.Render(item.Description)
		if err != nil {
			log.Warn("failed to render description",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			html = ""
		}
		front.Items = append(front.Items, PublicItem{
			ID:              item.ID,
			Name:            item.Name,
			Category:        item.Category,
			CategoryNotes:   item.CategoryNotes,
			Rarity:          item.Rarity,
			Description:     item.Description,
			DescriptionHTML: html,
			Source:          item.Source,
			Restrictions:    item.Restrictions,
			Attunement:      item.Attunement,
			Sold:            item.Purchased,
		})
	}
	return front, nil
}

// resolve maps ref to a store ID, trying a UUID, then a configured alias,
// then a settings slug.
func (s *storefrontServiceImpl) resolve(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return uuid.Nil, ErrStoreNotFound
	}

	if id, err := uuid.Parse(ref); err == nil {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if store.IsNotFoundError(err) {
				return uuid.Nil, ErrStoreNotFound
			}
			return uuid.Nil, NewServiceError("storefront", "resolve", err)
		}
		return id, nil
	}

	slug := strings.ToLower(ref)
	if id, ok := s.aliases[slug]; ok {
		return id, nil
	}

	if !domain.IsValidSlug(slug) {
		return uuid.Nil, ErrStoreNotFound
	}
	id, err := s.settings.ResolveSlug(ctx, slug)
	if err != nil {
		if store.IsNotFoundError(err) {
			return uuid.Nil, ErrStoreNotFound
		}
		return uuid.Nil, NewServiceError("storefront", "resolve", err)
	}
	return id, nil
}
