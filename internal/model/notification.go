package model

import "time"

// Notification is a user-facing event record. Written once by the
// dispatcher, later mutated only to flip the read flag.
type Notification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	RelatedSwapID *int64    `json:"related_swap_id,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notification types.
const (
	NotifySwapProposed  = "SWAP_PROPOSED"
	NotifySwapAccepted  = "SWAP_ACCEPTED"
	NotifySwapRejected  = "SWAP_REJECTED"
	NotifySwapCancelled = "SWAP_CANCELLED"
	NotifySwapCompleted = "SWAP_COMPLETED"
	NotifyItemRedeemed  = "ITEM_REDEEMED"
	NotifyItemApproved  = "ITEM_APPROVED"
	NotifyItemRejected  = "ITEM_REJECTED"
)
