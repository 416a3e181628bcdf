package model

import "time"

// PointTransaction is one immutable ledger entry. Entries are only ever
// appended; corrections are new REFUNDED/BONUS entries.
type PointTransaction struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Kind          string    `json:"kind"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description,omitempty"`
	RelatedItemID *int64    `json:"related_item_id,omitempty"`
	RelatedSwapID *int64    `json:"related_swap_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Ledger entry kinds.
const (
	PointsEarned   = "EARNED"
	PointsSpent    = "SPENT"
	PointsRefunded = "REFUNDED"
	PointsBonus    = "BONUS"
)

// PointsSign returns the signed contribution of a ledger kind to a balance:
// +1 for EARNED/BONUS/REFUNDED, -1 for SPENT, 0 for unknown kinds.
func PointsSign(kind string) int64 {
	switch kind {
	case PointsEarned, PointsBonus, PointsRefunded:
		return 1
	case PointsSpent:
		return -1
	}
	return 0
}
