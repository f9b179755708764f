package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/realtime"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// ShopSnapshots loads realtime snapshots in the same wire format as the
// REST endpoints.
type ShopSnapshots struct {
	shop service.ShopService
}

var _ realtime.SnapshotLoader = (*ShopSnapshots)(nil)

// NewShopSnapshots creates a snapshot loader backed by shop.
func NewShopSnapshots(shop service.ShopService) *ShopSnapshots {
	return &ShopSnapshots{shop: shop}
}

// LoadSnapshots implements realtime.SnapshotLoader.
func (s *ShopSnapshots) LoadSnapshots(
	ctx context.Context,
	storeID uuid.UUID,
	kinds []events.ChangeKind,
) ([]realtime.Snapshot, error) {
	state, err := s.shop.ShopState(ctx, storeID, kinds...)
	if err != nil {
		return nil, err
	}

	out := make([]realtime.Snapshot, 0, len(kinds))
	for _, kind := range kinds {
		var data any
		switch kind {
		case events.KindItems:
			data = itemsToResponse(state.Items)
		case events.KindFrontRoom:
			data = itemsToResponse(state.FrontRoom)
		case events.KindGachapon:
			data = itemsToResponse(state.Gachapon)
		case events.KindSettings:
			data = settingsToResponse(state.Settings)
		default:
			continue
		}
		out = append(out, realtime.Snapshot{Kind: kind, Data: data})
	}
	return out, nil
}
