package model

import "time"

// Swap represents a proposed or executed barter between two items
// owned by two different users.
type Swap struct {
	ID              int64     `json:"id"`
	InitiatorID     int64     `json:"initiator_id"`
	RecipientID     int64     `json:"recipient_id"`
	InitiatorItemID int64     `json:"initiator_item_id"`
	RecipientItemID int64     `json:"recipient_item_id"`
	Status          string    `json:"status"`
	PointsExchanged int64     `json:"points_exchanged"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	InitiatorItemTitle string `json:"initiator_item_title,omitempty"`
	RecipientItemTitle string `json:"recipient_item_title,omitempty"`
}

// Swap statuses.
const (
	SwapPending   = "PENDING"
	SwapAccepted  = "ACCEPTED"
	SwapRejected  = "REJECTED"
	SwapCancelled = "CANCELLED"
	SwapCompleted = "COMPLETED"
)

// swapTransitions is the authoritative transition table. Statuses missing
// from the map (REJECTED, CANCELLED, COMPLETED) are terminal.
var swapTransitions = map[string][]string{
	SwapPending:  {SwapAccepted, SwapRejected, SwapCancelled},
	SwapAccepted: {SwapCompleted, SwapCancelled},
}

// ValidSwapStatus reports whether s is a known swap status.
func ValidSwapStatus(s string) bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCancelled, SwapCompleted:
		return true
	}
	return false
}

// SwapTerminal reports whether a status permits no further transitions.
func SwapTerminal(status string) bool {
	return len(swapTransitions[status]) == 0
}

// SwapReachable reports whether a swap may move from one status to another.
func SwapReachable(from, to string) bool {
	for _, s := range swapTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
