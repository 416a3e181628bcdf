package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/notify"
	"github.com/rewear/rewear/internal/store"
)

// AdminHandler handles moderation endpoints.
type AdminHandler struct {
	DB         *sql.DB
	Dispatcher *notify.Dispatcher
}

type moderationRequest struct {
	Reason string `json:"reason"`
}

// ListPending handles GET /api/admin/items/pending.
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListPendingItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// ListFlagged handles GET /api/admin/items/flagged.
func (h *AdminHandler) ListFlagged(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFlaggedItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// ApproveItem handles POST /api/admin/items/{id}/approve.
func (h *AdminHandler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req moderationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())

	events, err := store.ApproveItem(r.Context(), h.DB, claims.UserID, id, req.Reason)
	if err != nil {
		storeError(w, err)
		return
	}
	h.Dispatcher.Enqueue(events...)

	slog.Info("item approved", "admin", claims.Email, "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item approved"})
}

// RejectItem handles POST /api/admin/items/{id}/reject.
func (h *AdminHandler) RejectItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req moderationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())

	events, err := store.RejectItem(r.Context(), h.DB, claims.UserID, id, req.Reason)
	if err != nil {
		storeError(w, err)
		return
	}
	h.Dispatcher.Enqueue(events...)

	slog.Info("item rejected", "admin", claims.Email, "item", id, "reason", req.Reason)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item rejected"})
}

// BanUser handles POST /api/admin/users/{id}/ban.
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBan(w, r, true)
}

// UnbanUser handles POST /api/admin/users/{id}/unban.
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBan(w, r, false)
}

func (h *AdminHandler) setBan(w http.ResponseWriter, r *http.Request, banned bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req moderationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if claims.UserID == id {
		jsonError(w, http.StatusBadRequest, "cannot ban yourself")
		return
	}

	if banned {
		err = store.BanUser(r.Context(), h.DB, claims.UserID, id, req.Reason)
	} else {
		err = store.UnbanUser(r.Context(), h.DB, claims.UserID, id, req.Reason)
	}
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("user ban updated", "admin", claims.Email, "user", id, "banned", banned)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user updated"})
}

// ListActions handles GET /api/admin/actions.
func (h *AdminHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := store.ListAdminActions(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list admin actions")
		return
	}
	if actions == nil {
		actions = []model.AdminAction{}
	}
	jsonResponse(w, http.StatusOK, actions)
}
