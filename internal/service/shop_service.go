package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// ShopState is everything a shopkeeper's dashboard shows. Parts that were
// not requested are left nil.
type ShopState struct {
	StoreID   uuid.UUID
	Items     []*domain.Item
	FrontRoom []*domain.Item
	Gachapon  []*domain.Item
	Settings  *domain.Settings
}

// ShopService loads whole-store views.
type ShopService interface {
	// ShopState loads the requested parts of a store concurrently. With no
	// kinds it loads every part.
	ShopState(ctx context.Context, storeID uuid.UUID, kinds ...events.ChangeKind) (*ShopState, error)
}

type shopServiceImpl struct {
	items    ItemService
	displays DisplayService
	settings SettingsService
	logger   *slog.Logger
}

// NewShopService creates a new ShopService.
func NewShopService(
	items ItemService,
	displays DisplayService,
	settings SettingsService,
	logger *slog.Logger,
) (ShopService, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if displays == nil {
		return nil, domain.NewValidationError("displays", "cannot be nil", domain.ErrValidation)
	}
	if settings == nil {
		return nil, domain.NewValidationError("settings", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &shopServiceImpl{
		items:    items,
		displays: displays,
		settings: settings,
		logger:   logger.With(slog.String("component", "shop_service")),
	}, nil
}

func (s *shopServiceImpl) ShopState(
	ctx context.Context,
	storeID uuid.UUID,
	kinds ...events.ChangeKind,
) (*ShopState, error) {
	if len(kinds) == 0 {
		kinds = events.Kinds
	}
	state := &ShopState{StoreID: storeID}
	g, gctx := errgroup.WithContext(ctx)

	if slices.Contains(kinds, events.KindItems) {
		g.Go(func() (err error) {
			state.Items, err = s.items.ListItems(gctx, storeID)
			return err
		})
	}
	if slices.Contains(kinds, events.KindFrontRoom) {
		g.Go(func() (err error) {
			state.FrontRoom, err = s.displays.Current(gctx, storeID, domain.SurfaceFrontRoom)
			return err
		})
	}
	if slices.Contains(kinds, events.KindGachapon) {
		g.Go(func() (err error) {
			state.Gachapon, err = s.displays.Current(gctx, storeID, domain.SurfaceGachapon)
			return err
		})
	}
	if slices.Contains(kinds, events.KindSettings) {
		g.Go(func() (err error) {
			state.Settings, err = s.settings.GetSettings(gctx, storeID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load shop state",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, err
	}
	return state, nil
}
