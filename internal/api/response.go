package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rewear/rewear/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store errors to HTTP responses.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrForbidden):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicateRequest),
		errors.Is(err, store.ErrInvalidTransition):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidItem),
		errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrSelfSwap),
		errors.Is(err, store.ErrSelfRedemption):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInsufficientPoints):
		jsonError(w, http.StatusPaymentRequired, err.Error())
	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
