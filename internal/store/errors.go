package store

import "errors"

// Errors returned by the swap, ledger, and redemption operations. Handlers
// map these to HTTP statuses with errors.Is; everything else is internal.
var (
	// ErrNotFound means the referenced swap, item, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the acting user lacks the role for the request.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means the requested status is not reachable from
	// the swap's current status, including any transition out of a terminal
	// status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict means a concurrent request won the race on the same swap
	// or item. Safe to retry after re-reading state.
	ErrConflict = errors.New("conflict")

	// ErrInvalidItem means an item is not approved and available.
	ErrInvalidItem = errors.New("item invalid or unavailable")

	// ErrInvalidAmount means a ledger amount was zero, negative, or of an
	// unknown kind.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientPoints means the buyer's balance cannot cover the
	// item's points value.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrSelfSwap means a user proposed a swap against their own item.
	ErrSelfSwap = errors.New("cannot swap with own item")

	// ErrSelfRedemption means a user tried to redeem their own item.
	ErrSelfRedemption = errors.New("cannot redeem own item")

	// ErrDuplicateRequest means an identical pending proposal already exists.
	ErrDuplicateRequest = errors.New("pending swap already exists for these items")
)
