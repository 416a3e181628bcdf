package model

import "time"

// AdminAction is an immutable audit record of a moderation override.
type AdminAction struct {
	ID           int64     `json:"id"`
	AdminID      int64     `json:"admin_id"`
	ActionType   string    `json:"action_type"`
	TargetItemID *int64    `json:"target_item_id,omitempty"`
	TargetUserID *int64    `json:"target_user_id,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin action types.
const (
	ActionApproveItem = "APPROVE_ITEM"
	ActionRejectItem  = "REJECT_ITEM"
	ActionBanUser     = "BAN_USER"
	ActionUnbanUser   = "UNBAN_USER"
)
