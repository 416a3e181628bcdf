package model

import "time"

// User represents an account that can list items, swap them, and spend points.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Admin         bool       `json:"admin"`
	Banned        bool       `json:"banned"`
	PointsBalance int64      `json:"points_balance"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}
