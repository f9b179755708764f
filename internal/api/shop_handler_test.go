package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/mocks"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLive struct {
	storeID uuid.UUID
}

func (l *recordingLive) Serve(w http.ResponseWriter, r *http.Request, storeID uuid.UUID) {
	l.storeID = storeID
	w.WriteHeader(http.StatusTeapot)
}

func shopRoutes(userID uuid.UUID, shop service.ShopService, front service.StorefrontService, live LiveServer) http.Handler {
	h := NewShopHandler(shop, front, live, quietLogger())
	return newTestRouter(userID, func(r chi.Router) {
		r.Get("/api/shop", h.GetShop)
		r.Get("/api/storefront/{ref}", h.GetStorefront)
		r.Get("/api/live", h.Live)
	})
}

func TestGetShop(t *testing.T) {
	userID := uuid.New()
	orb := testItem(userID, "Orb", domain.RarityRare)
	shop := &mocks.MockShopService{
		ShopStateFn: func(ctx context.Context, storeID uuid.UUID, kinds ...events.ChangeKind) (*service.ShopState, error) {
			assert.Empty(t, kinds)
			return &service.ShopState{
				StoreID:   storeID,
				Items:     []*domain.Item{orb},
				FrontRoom: []*domain.Item{orb},
				Settings:  domain.DefaultSettings(storeID),
			}, nil
		},
	}

	rr := doJSON(t, shopRoutes(userID, shop, nil, nil), http.MethodGet, "/api/shop", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[ShopStateResponse](t, rr)
	assert.Equal(t, userID, resp.StoreID)
	assert.Len(t, resp.Items, 1)
	assert.Len(t, resp.FrontRoom, 1)
	assert.NotNil(t, resp.Gachapon)
	assert.Empty(t, resp.Gachapon)
	assert.Equal(t, domain.DefaultShopName, resp.Settings.ShopName)

	failing := &mocks.MockShopService{
		ShopStateFn: func(ctx context.Context, storeID uuid.UUID, kinds ...events.ChangeKind) (*service.ShopState, error) {
			return nil, errors.New("db down")
		},
	}
	rr = doJSON(t, shopRoutes(userID, failing, nil, nil), http.MethodGet, "/api/shop", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load shop")
	assert.NotContains(t, rr.Body.String(), "db down")
}

func TestGetStorefront(t *testing.T) {
	storeID := uuid.New()
	front := &mocks.MockStorefrontService{
		StorefrontFn: func(ctx context.Context, ref string) (*service.Storefront, error) {
			if ref != "cosmic" {
				return nil, service.ErrStoreNotFound
			}
			return &service.Storefront{
				StoreID:  storeID,
				ShopName: "Cosmic Curiosities",
				Slug:     "cosmic",
				Items: []service.PublicItem{{
					ID:              uuid.New(),
					Name:            "Sending Stones",
					Rarity:          domain.RarityUncommon,
					DescriptionHTML: "<p>Paired.</p>\n",
					Sold:            true,
				}},
			}, nil
		},
	}
	h := shopRoutes(uuid.Nil, &mocks.MockShopService{}, front, nil)

	rr := doJSON(t, h, http.MethodGet, "/api/storefront/cosmic", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[StorefrontResponse](t, rr)
	assert.Equal(t, "Cosmic Curiosities", resp.ShopName)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Sold)
	assert.Equal(t, "Uncommon", resp.Items[0].RarityLabel)
	assert.NotContains(t, rr.Body.String(), "stocked")

	rr = doJSON(t, h, http.MethodGet, "/api/storefront/elsewhere", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Shop not found")
}

func TestLive(t *testing.T) {
	userID := uuid.New()
	live := &recordingLive{}

	rr := doJSON(t, shopRoutes(userID, nil, nil, live), http.MethodGet, "/api/live", nil)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, userID, live.storeID)

	rr = doJSON(t, shopRoutes(userID, nil, nil, nil), http.MethodGet, "/api/live", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doJSON(t, shopRoutes(uuid.Nil, nil, nil, live), http.MethodGet, "/api/live", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestShopSnapshots(t *testing.T) {
	storeID := uuid.New()
	var requested []events.ChangeKind
	shop := &mocks.MockShopService{
		ShopStateFn: func(ctx context.Context, id uuid.UUID, kinds ...events.ChangeKind) (*service.ShopState, error) {
			requested = kinds
			return &service.ShopState{StoreID: id, Settings: &domain.Settings{ShopName: "Cosmic"}}, nil
		},
	}

	snaps, err := NewShopSnapshots(shop).LoadSnapshots(context.Background(), storeID,
		[]events.ChangeKind{events.KindGachapon, events.KindSettings})
	require.NoError(t, err)
	assert.Equal(t, []events.ChangeKind{events.KindGachapon, events.KindSettings}, requested)
	require.Len(t, snaps, 2)
	assert.Equal(t, events.KindGachapon, snaps[0].Kind)
	assert.Equal(t, []ItemResponse{}, snaps[0].Data)
	assert.Equal(t, &SettingsResponse{ShopName: "Cosmic"}, snaps[1].Data)
}

func TestSettingsRoutes(t *testing.T) {
	userID := uuid.New()
	settings := &mocks.MockSettingsService{
		SaveSettingsFn: func(ctx context.Context, uid uuid.UUID, shopName, slug string) (*domain.Settings, error) {
			if slug == "taken" {
				return nil, service.ErrSlugTaken
			}
			return &domain.Settings{StoreID: uid, ShopName: shopName, Slug: slug}, nil
		},
	}
	sh := NewSettingsHandler(settings, quietLogger())
	h := newTestRouter(userID, func(r chi.Router) {
		r.Get("/api/settings", sh.GetSettings)
		r.Put("/api/settings", sh.SaveSettings)
	})

	rr := doJSON(t, h, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"shop_name":"Fantasy Costco"}`, rr.Body.String())

	rr = doJSON(t, h, http.MethodPut, "/api/settings", SettingsRequest{ShopName: "Cosmic Curiosities", Slug: "cosmic"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"shop_name":"Cosmic Curiosities","slug":"cosmic"}`, rr.Body.String())

	rr = doJSON(t, h, http.MethodPut, "/api/settings", SettingsRequest{ShopName: "Copycat", Slug: "taken"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, h, http.MethodPut, "/api/settings", SettingsRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid shop_name: required field")
}
