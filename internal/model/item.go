package model

import "time"

// Item represents a listed garment.
type Item struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	CategoryID  int64      `json:"category_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Size        string     `json:"size,omitempty"`
	Condition   string     `json:"condition"`
	Type        string     `json:"type"`
	PointsValue int64      `json:"points_value"`
	Available   bool       `json:"available"`
	Approved    bool       `json:"approved"`
	Flagged     bool       `json:"flagged"`
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	OwnerName    string `json:"owner_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

// Item conditions.
const (
	ConditionNew     = "NEW"
	ConditionLikeNew = "LIKE_NEW"
	ConditionGood    = "GOOD"
	ConditionFair    = "FAIR"
	ConditionPoor    = "POOR"
)

// Item types.
const (
	TypeTop       = "TOP"
	TypeBottom    = "BOTTOM"
	TypeDress     = "DRESS"
	TypeOuterwear = "OUTERWEAR"
	TypeShoes     = "SHOES"
	TypeAccessory = "ACCESSORY"
)

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ValidType reports whether t is a known item type.
func ValidType(t string) bool {
	switch t {
	case TypeTop, TypeBottom, TypeDress, TypeOuterwear, TypeShoes, TypeAccessory:
		return true
	}
	return false
}

// Category is a fixed garment category an item belongs to.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
