package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewear/rewear/internal/model"
)

// ApproveItem makes an item visible in listings and clears any moderation
// flag. Records the admin action and returns the owner notification.
func ApproveItem(ctx context.Context, db *sql.DB, adminID, itemID int64, reason string) ([]model.Notification, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	var title string
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, title FROM items WHERE id = ? AND deleted_at IS NULL`, itemID,
	).Scan(&ownerID, &title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET approved = 1, flagged = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("approving item: %w", err)
	}

	if err := recordAdminAction(ctx, tx, adminID, model.ActionApproveItem, &itemID, nil, reason); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return []model.Notification{{
		UserID:  ownerID,
		Type:    model.NotifyItemApproved,
		Title:   "Item Approved",
		Message: fmt.Sprintf("Your item %q has been approved and is now listed.", title),
	}}, nil
}

// RejectItem removes an item from the platform. The row is soft-deleted so
// the moderation trail keeps pointing at it.
func RejectItem(ctx context.Context, db *sql.DB, adminID, itemID int64, reason string) ([]model.Notification, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	var title string
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, title FROM items WHERE id = ? AND deleted_at IS NULL`, itemID,
	).Scan(&ownerID, &title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP, available = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("rejecting item: %w", err)
	}

	if err := recordAdminAction(ctx, tx, adminID, model.ActionRejectItem, &itemID, nil, reason); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	message := fmt.Sprintf("Your item %q has been removed.", title)
	if reason != "" {
		message = fmt.Sprintf("Your item %q has been removed: %s", title, reason)
	}
	return []model.Notification{{
		UserID:  ownerID,
		Type:    model.NotifyItemRejected,
		Title:   "Item Removed",
		Message: message,
	}}, nil
}

// BanUser bans a user and records the admin action. Banned users keep their
// data but can no longer authenticate.
func BanUser(ctx context.Context, db *sql.DB, adminID, userID int64, reason string) error {
	return setUserBan(ctx, db, adminID, userID, true, reason)
}

// UnbanUser lifts a ban.
func UnbanUser(ctx context.Context, db *sql.DB, adminID, userID int64, reason string) error {
	return setUserBan(ctx, db, adminID, userID, false, reason)
}

func setUserBan(ctx context.Context, db *sql.DB, adminID, userID int64, banned bool, reason string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET banned = ? WHERE id = ? AND deleted_at IS NULL`, banned, userID)
	if err != nil {
		return fmt.Errorf("updating ban: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking update: %w", err)
	} else if n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	action := model.ActionBanUser
	if !banned {
		action = model.ActionUnbanUser
	}
	if err := recordAdminAction(ctx, tx, adminID, action, nil, &userID, reason); err != nil {
		return err
	}

	return tx.Commit()
}

// ListAdminActions returns the moderation trail, newest first.
func ListAdminActions(ctx context.Context, db *sql.DB) ([]model.AdminAction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, admin_id, action_type, target_item_id, target_user_id, reason, created_at
		 FROM admin_actions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing admin actions: %w", err)
	}
	defer rows.Close()

	var actions []model.AdminAction
	for rows.Next() {
		var a model.AdminAction
		if err := rows.Scan(&a.ID, &a.AdminID, &a.ActionType, &a.TargetItemID, &a.TargetUserID,
			&a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func recordAdminAction(ctx context.Context, tx *sql.Tx, adminID int64, actionType string, itemID, userID *int64, reason string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO admin_actions (admin_id, action_type, target_item_id, target_user_id, reason)
		 VALUES (?, ?, ?, ?, ?)`,
		adminID, actionType, itemID, userID, reason,
	)
	if err != nil {
		return fmt.Errorf("recording admin action: %w", err)
	}
	return nil
}
