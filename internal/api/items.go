package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/moderation"
	"github.com/rewear/rewear/internal/notify"
	"github.com/rewear/rewear/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	DB         *sql.DB
	Classifier moderation.Classifier
	Dispatcher *notify.Dispatcher
}

type createItemRequest struct {
	CategoryID  int64  `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Condition   string `json:"condition"`
	Type        string `json:"type"`
	PointsValue int64  `json:"points_value"`
}

// Create handles POST /api/items. New listings are screened by the
// classifier and always land in the moderation queue unapproved.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.CategoryID <= 0 {
		jsonError(w, http.StatusBadRequest, "title and category_id are required")
		return
	}
	if !model.ValidCondition(req.Condition) {
		jsonError(w, http.StatusBadRequest, "invalid condition")
		return
	}
	if !model.ValidType(req.Type) {
		jsonError(w, http.StatusBadRequest, "invalid type")
		return
	}
	if req.PointsValue < 0 {
		jsonError(w, http.StatusBadRequest, "points_value must not be negative")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, req.CategoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}

	flagged := moderation.Screen(r.Context(), h.Classifier, req.Title, req.Description)

	item, err := store.CreateItem(r.Context(), h.DB, claims.UserID, req.CategoryID,
		req.Title, req.Description, req.Size, req.Condition, req.Type, req.PointsValue, flagged)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("item listed", "user", claims.Email, "item", item.ID, "flagged", flagged)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListAvailableItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}. Viewing someone else's item bumps its
// view counter.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims != nil && claims.UserID != item.OwnerID {
		if err := store.IncrementViewCount(r.Context(), h.DB, id); err != nil {
			slog.Warn("view count update failed", "item", id, "error", err)
		} else {
			item.ViewCount++
		}
	}

	jsonResponse(w, http.StatusOK, item)
}

// ListMine handles GET /api/items/mine.
func (h *ItemsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := store.ListItemsByOwner(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Redeem handles POST /api/items/{id}/redeem.
func (h *ItemsHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())

	events, err := store.RedeemItem(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		storeError(w, err)
		return
	}
	h.Dispatcher.Enqueue(events...)

	slog.Info("item redeemed", "user", claims.Email, "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item redeemed"})
}
