package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// LiveServer streams store snapshots over a websocket.
type LiveServer interface {
	Serve(w http.ResponseWriter, r *http.Request, storeID uuid.UUID)
}

// ShopHandler serves whole-shop views: the dashboard state, the public
// storefront and the live stream.
type ShopHandler struct {
	shop       service.ShopService
	storefront service.StorefrontService
	live       LiveServer
	logger     *slog.Logger
}

// NewShopHandler creates a new ShopHandler. live may be nil, in which case
// GET /api/live answers 503.
func NewShopHandler(
	shop service.ShopService,
	storefront service.StorefrontService,
	live LiveServer,
	logger *slog.Logger,
) *ShopHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShopHandler{
		shop:       shop,
		storefront: storefront,
		live:       live,
		logger:     logger.With(slog.String("component", "shop_handler")),
	}
}

// GetShop handles GET /api/shop.
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	state, err := h.shop.ShopState(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load shop")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shopStateToResponse(state))
}

// GetStorefront handles GET /api/storefront/{ref}. It needs no sign-in.
func (h *ShopHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	front, err := h.storefront.Storefront(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=30")
	shared.RespondWithJSON(w, r, http.StatusOK, storefrontToResponse(front))
}

// Live handles GET /api/live.
func (h *ShopHandler) Live(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if h.live == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Live updates are not available")
		return
	}
	h.live.Serve(w, r, userID)
}
