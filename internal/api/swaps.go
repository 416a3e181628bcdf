package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/notify"
	"github.com/rewear/rewear/internal/store"
)

// SwapsHandler handles swap endpoints.
type SwapsHandler struct {
	DB         *sql.DB
	Dispatcher *notify.Dispatcher
}

type proposeSwapRequest struct {
	InitiatorItemID int64 `json:"initiator_item_id"`
	RecipientItemID int64 `json:"recipient_item_id"`
	PointsOffered   int64 `json:"points_offered"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/swaps.
func (h *SwapsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req proposeSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.InitiatorItemID <= 0 || req.RecipientItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "initiator_item_id and recipient_item_id are required")
		return
	}

	claims := GetClaims(r.Context())

	swap, events, err := store.ProposeSwap(r.Context(), h.DB,
		claims.UserID, req.InitiatorItemID, req.RecipientItemID, req.PointsOffered)
	if err != nil {
		storeError(w, err)
		return
	}
	h.Dispatcher.Enqueue(events...)

	slog.Info("swap proposed", "user", claims.Email, "swap", swap.ID)
	jsonResponse(w, http.StatusCreated, swap)
}

// Transition handles PUT /api/swaps/{id}/status.
func (h *SwapsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		jsonError(w, http.StatusBadRequest, "status is required")
		return
	}

	claims := GetClaims(r.Context())

	swap, events, err := store.TransitionSwap(r.Context(), h.DB, id, claims.UserID, status)
	if err != nil {
		storeError(w, err)
		return
	}
	h.Dispatcher.Enqueue(events...)

	slog.Info("swap transitioned", "user", claims.Email, "swap", swap.ID, "status", swap.Status)
	jsonResponse(w, http.StatusOK, swap)
}

// Get handles GET /api/swaps/{id}. Only the parties may see a swap.
func (h *SwapsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	swap, err := store.GetSwap(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if swap == nil {
		jsonError(w, http.StatusNotFound, "swap not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims.UserID != swap.InitiatorID && claims.UserID != swap.RecipientID {
		jsonError(w, http.StatusForbidden, "not a party to this swap")
		return
	}
	jsonResponse(w, http.StatusOK, swap)
}

// List handles GET /api/swaps with an optional status filter.
func (h *SwapsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	if status != "" && !model.ValidSwapStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	claims := GetClaims(r.Context())

	swaps, err := store.ListSwapsForUser(r.Context(), h.DB, claims.UserID, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list swaps")
		return
	}
	if swaps == nil {
		swaps = []model.Swap{}
	}
	jsonResponse(w, http.StatusOK, swaps)
}
