package api

import (
	"database/sql"
	"net/http"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/store"
)

// PointsHandler handles point ledger endpoints.
type PointsHandler struct {
	DB *sql.DB
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// Balance handles GET /api/points/balance.
func (h *PointsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	balance, err := store.UserBalance(r.Context(), h.DB, claims.UserID)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, balanceResponse{Balance: balance})
}

// History handles GET /api/points/history.
func (h *PointsHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	txs, err := store.ListTransactions(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txs == nil {
		txs = []model.PointTransaction{}
	}
	jsonResponse(w, http.StatusOK, txs)
}
