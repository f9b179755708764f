package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/domain/stocking"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// RestockObserver is told about every completed restock.
type RestockObserver interface {
	RestockRecorded(surface string)
}

// DisplayService manages the front room and gachapon surfaces.
type DisplayService interface {
	// Current returns the saved contents of a surface, sorted by name.
	// Purchased items stay in the front room, shown as sold; the gachapon
	// only holds unpurchased items.
	Current(ctx context.Context, storeID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)

	// Randomize draws new contents for a surface without saving them,
	// so the shopkeeper can preview a restock first.
	Randomize(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)

	// Save replaces the contents of a surface. Every id must belong to an
	// item in the caller's store; duplicates are collapsed.
	Save(ctx context.Context, userID uuid.UUID, surface domain.Surface, ids []uuid.UUID) ([]*domain.Item, error)

	// Restock randomizes and saves a surface in one step.
	Restock(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)

	// Spin picks one random item from the current gachapon contents.
	Spin(ctx context.Context, storeID uuid.UUID) (*domain.Item, error)
}

type displayServiceImpl struct {
	items    store.ItemStore
	displays store.DisplayStore
	stocking stocking.Service
	observer RestockObserver
	logger   *slog.Logger
}

// NewDisplayService creates a new DisplayService. observer may be nil.
func NewDisplayService(
	items store.ItemStore,
	displays store.DisplayStore,
	stock stocking.Service,
	observer RestockObserver,
	logger *slog.Logger,
) (DisplayService, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if displays == nil {
		return nil, domain.NewValidationError("displays", "cannot be nil", domain.ErrValidation)
	}
	if stock == nil {
		return nil, domain.NewValidationError("stocking", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &displayServiceImpl{
		items:    items,
		displays: displays,
		stocking: stock,
		observer: observer,
		logger:   logger.With(slog.String("component", "display_service")),
	}, nil
}

func (s *displayServiceImpl) Current(
	ctx context.Context,
	storeID uuid.UUID,
	surface domain.Surface,
) ([]*domain.Item, error) {
	if !surface.IsValid() {
		return nil, domain.ErrInvalidSurface
	}

	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, NewServiceError("display", "current", err)
	}
	display, err := s.displays.Get(ctx, storeID, surface)
	if err != nil {
		return nil, NewServiceError("display", "current", err)
	}

	return project(items, display), nil
}

// project maps a saved display onto the store's items, sorted by name.
func project(items []*domain.Item, display *domain.Display) []*domain.Item {
	var current []*domain.Item
	switch display.Surface {
	case domain.SurfaceGachapon:
		current = domain.CurrentGachapon(items, display.ItemIDs)
	default:
		current = domain.CurrentFrontRoom(items, display.ItemIDs)
	}
	domain.SortByName(current)
	return current
}

func (s *displayServiceImpl) Randomize(
	ctx context.Context,
	userID uuid.UUID,
	surface domain.Surface,
) ([]*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}
	if !surface.IsValid() {
		return nil, domain.ErrInvalidSurface
	}

	items, err := s.items.ListByStore(ctx, userID)
	if err != nil {
		return nil, NewServiceError("display", "randomize", err)
	}

	picked := domain.Select(items, s.draw(items, surface))
	domain.SortByName(picked)

	logger.FromContextOrDefault(ctx, s.logger).Debug("surface randomized",
		slog.String("store_id", userID.String()),
		slog.String("surface", string(surface)),
		slog.Int("count", len(picked)))
	return picked, nil
}

func (s *displayServiceImpl) draw(items []*domain.Item, surface domain.Surface) []uuid.UUID {
	if surface == domain.SurfaceGachapon {
		return s.stocking.Gachapon(items)
	}
	return s.stocking.FrontRoom(items)
}

func (s *displayServiceImpl) Save(
	ctx context.Context,
	userID uuid.UUID,
	surface domain.Surface,
	ids []uuid.UUID,
) ([]*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}

	display, err := domain.NewDisplay(userID, surface, ids)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByStore(ctx, userID)
	if err != nil {
		return nil, NewServiceError("display", "save", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		owned[item.ID] = struct{}{}
	}
	for _, id := range display.ItemIDs {
		if _, ok := owned[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
	}

	if err := s.displays.Save(ctx, display); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save display",
			slog.String("error", err.Error()),
			slog.String("surface", string(surface)))
		return nil, NewServiceError("display", "save", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("display saved",
		slog.String("store_id", userID.String()),
		slog.String("surface", string(surface)),
		slog.Int("count", len(display.ItemIDs)))
	return project(items, display), nil
}

func (s *displayServiceImpl) Restock(
	ctx context.Context,
	userID uuid.UUID,
	surface domain.Surface,
) ([]*domain.Item, error) {
	picked, err := s.Randomize(ctx, userID, surface)
	if err != nil {
		return nil, err
	}

	saved, err := s.Save(ctx, userID, surface, domain.IDs(picked))
	if err != nil {
		return nil, err
	}

	if s.observer != nil {
		s.observer.RestockRecorded(string(surface))
	}
	return saved, nil
}

func (s *displayServiceImpl) Spin(ctx context.Context, storeID uuid.UUID) (*domain.Item, error) {
	current, err := s.Current(ctx, storeID, domain.SurfaceGachapon)
	if err != nil {
		return nil, err
	}

	item := s.stocking.Pick(current)
	if item == nil {
		return nil, ErrGachaponEmpty
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("gachapon spun",
		slog.String("store_id", storeID.String()),
		slog.String("item_id", item.ID.String()))
	return item, nil
}
