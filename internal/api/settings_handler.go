package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// SettingsHandler handles shop settings requests.
type SettingsHandler struct {
	settings service.SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	settings, err := h.settings.GetSettings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// SaveSettings handles PUT /api/settings.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req SettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	settings, err := h.settings.SaveSettings(r.Context(), userID, req.ShopName, req.Slug)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}
