package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// DisplayHandler serves the front room and gachapon surfaces. Each method
// takes the surface and returns the handler for it.
type DisplayHandler struct {
	displays service.DisplayService
	logger   *slog.Logger
}

// NewDisplayHandler creates a new DisplayHandler
func NewDisplayHandler(displays service.DisplayService, logger *slog.Logger) *DisplayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisplayHandler{
		displays: displays,
		logger:   logger.With(slog.String("component", "display_handler")),
	}
}

// Current handles GET /api/{surface}.
func (h *DisplayHandler) Current(surface domain.Surface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		items, err := h.displays.Current(r.Context(), userID, surface)
		h.respond(w, r, surface, items, err)
	}
}

// Save handles PUT /api/{surface}.
func (h *DisplayHandler) Save(surface domain.Surface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		var req DisplayRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		items, err := h.displays.Save(r.Context(), userID, surface, req.ItemIDs)
		h.respond(w, r, surface, items, err)
	}
}

// Randomize handles POST /api/{surface}/randomize. The draw is a preview;
// it is not saved.
func (h *DisplayHandler) Randomize(surface domain.Surface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		items, err := h.displays.Randomize(r.Context(), userID, surface)
		h.respond(w, r, surface, items, err)
	}
}

// Restock handles POST /api/{surface}/restock.
func (h *DisplayHandler) Restock(surface domain.Surface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}
		items, err := h.displays.Restock(r.Context(), userID, surface)
		h.respond(w, r, surface, items, err)
	}
}

// Spin handles POST /api/gachapon/spin.
func (h *DisplayHandler) Spin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	item, err := h.displays.Spin(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

func (h *DisplayHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	surface domain.Surface,
	items []*domain.Item,
	err error,
) {
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DisplayResponse{
		Surface: surface,
		Items:   itemsToResponse(items),
	})
}
