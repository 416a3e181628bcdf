package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id             INTEGER PRIMARY KEY,
    email          TEXT NOT NULL,
    password_hash  TEXT NOT NULL,
    first_name     TEXT NOT NULL,
    last_name      TEXT NOT NULL,
    admin          INTEGER NOT NULL DEFAULT 0,
    banned         INTEGER NOT NULL DEFAULT 0,
    points_balance INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at     DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    owner_id     INTEGER NOT NULL REFERENCES users(id),
    category_id  INTEGER NOT NULL REFERENCES categories(id),
    title        TEXT NOT NULL,
    description  TEXT,
    size         TEXT,
    condition    TEXT NOT NULL CHECK (condition IN ('NEW', 'LIKE_NEW', 'GOOD', 'FAIR', 'POOR')),
    type         TEXT NOT NULL CHECK (type IN ('TOP', 'BOTTOM', 'DRESS', 'OUTERWEAR', 'SHOES', 'ACCESSORY')),
    points_value INTEGER NOT NULL DEFAULT 0 CHECK (points_value >= 0),
    available    INTEGER NOT NULL DEFAULT 1,
    approved     INTEGER NOT NULL DEFAULT 0,
    flagged      INTEGER NOT NULL DEFAULT 0,
    view_count   INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at   DATETIME
);

CREATE TABLE IF NOT EXISTS swaps (
    id                INTEGER PRIMARY KEY,
    initiator_id      INTEGER NOT NULL REFERENCES users(id),
    recipient_id      INTEGER NOT NULL REFERENCES users(id),
    initiator_item_id INTEGER NOT NULL REFERENCES items(id),
    recipient_item_id INTEGER NOT NULL REFERENCES items(id),
    status            TEXT NOT NULL DEFAULT 'PENDING'
        CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED', 'CANCELLED', 'COMPLETED')),
    points_exchanged  INTEGER NOT NULL DEFAULT 0 CHECK (points_exchanged >= 0),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS point_transactions (
    id              INTEGER PRIMARY KEY,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    kind            TEXT NOT NULL CHECK (kind IN ('EARNED', 'SPENT', 'REFUNDED', 'BONUS')),
    amount          INTEGER NOT NULL CHECK (amount > 0),
    description     TEXT,
    related_item_id INTEGER REFERENCES items(id),
    related_swap_id INTEGER REFERENCES swaps(id),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
    id              INTEGER PRIMARY KEY,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    type            TEXT NOT NULL,
    title           TEXT NOT NULL,
    message         TEXT NOT NULL,
    related_swap_id INTEGER REFERENCES swaps(id),
    read            INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admin_actions (
    id             INTEGER PRIMARY KEY,
    admin_id       INTEGER NOT NULL REFERENCES users(id),
    action_type    TEXT NOT NULL CHECK (action_type IN ('APPROVE_ITEM', 'REJECT_ITEM', 'BAN_USER', 'UNBAN_USER')),
    target_item_id INTEGER REFERENCES items(id),
    target_user_id INTEGER REFERENCES users(id),
    reason         TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: seed the fixed garment categories.
	`INSERT OR IGNORE INTO categories (name) VALUES
	    ('Tops'), ('Bottoms'), ('Dresses'), ('Outerwear'), ('Shoes'), ('Accessories')`,
	// Migration 2: a pending proposal is looked up on every propose call.
	`CREATE INDEX IF NOT EXISTS idx_swaps_pending
	     ON swaps(initiator_id, initiator_item_id, recipient_item_id) WHERE status = 'PENDING'`,
	// Migration 3: ledger listings are per user, newest first.
	`CREATE INDEX IF NOT EXISTS idx_point_transactions_user
	     ON point_transactions(user_id, created_at)`,
}

// EnsureSchema creates the schema and applies all migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
