package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/catalog"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// ItemHandler handles inventory requests for the signed-in store.
type ItemHandler struct {
	items  service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items service.ItemService, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		items:  items,
		logger: logger.With(slog.String("component", "item_handler")),
	}
}

// ListItems handles GET /api/items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.items.ListItems(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// CreateItem handles POST /api/items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	fields, err := req.Fields()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.items.AddItem(r.Context(), userID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// GetItem handles GET /api/items/{id}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// UpdateItem handles PUT /api/items/{id}. Every field is replaced.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	fields, err := req.Fields()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.items.EditItem(r.Context(), userID, itemID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.items.DeleteItem(r.Context(), userID, itemID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPurchased handles POST /api/items/{id}/purchase.
func (h *ItemHandler) SetPurchased(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PurchaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.SetPurchased(r.Context(), userID, itemID, *req.Purchased)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DescribeItem handles POST /api/items/describe. The draft is returned
// for review and never saved.
func (h *ItemHandler) DescribeItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	fields, err := req.Fields()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	text, err := h.items.DraftDescription(r.Context(), userID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DescribeResponse{Description: text})
}

// ImportItems handles POST /api/items/import. The body is a YAML catalog;
// either every item is created or none is.
func (h *ItemHandler) ImportItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes)
	fields, err := catalog.Parse(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items, err := h.items.ImportItems(r.Context(), userID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("catalog imported",
		slog.Int("count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{
		Imported: len(items),
		Items:    itemsToResponse(items),
	})
}
