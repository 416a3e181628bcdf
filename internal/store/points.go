package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewear/rewear/internal/model"
)

// appendLedgerEntry inserts a point transaction and applies the signed
// amount to the user's cached balance inside tx. Callers own the commit.
func appendLedgerEntry(ctx context.Context, tx *sql.Tx, userID int64, kind string, amount int64, description string, itemID, swapID *int64) error {
	sign := model.PointsSign(kind)
	if sign == 0 {
		return fmt.Errorf("kind %q: %w", kind, ErrInvalidAmount)
	}
	if amount <= 0 {
		return fmt.Errorf("amount %d: %w", amount, ErrInvalidAmount)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO point_transactions (user_id, kind, amount, description, related_item_id, related_swap_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, kind, amount, description, itemID, swapID,
	)
	if err != nil {
		return fmt.Errorf("inserting point transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET points_balance = points_balance + ? WHERE id = ? AND deleted_at IS NULL`,
		sign*amount, userID,
	)
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking balance update: %w", err)
	} else if n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// RecordTransaction appends a single ledger entry and updates the cached
// balance atomically. Used for admin adjustments and signup bonuses; swap
// settlement and redemption append their entries inside their own
// transactions.
func RecordTransaction(ctx context.Context, db *sql.DB, userID int64, kind string, amount int64, description string, itemID, swapID *int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendLedgerEntry(ctx, tx, userID, kind, amount, description, itemID, swapID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListTransactions returns a user's point transactions, newest first.
func ListTransactions(ctx context.Context, db *sql.DB, userID int64) ([]model.PointTransaction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, kind, amount, description, related_item_id, related_swap_id, created_at
		 FROM point_transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.PointTransaction
	for rows.Next() {
		var t model.PointTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Description,
			&t.RelatedItemID, &t.RelatedSwapID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// LedgerBalance replays the user's full transaction history and returns the
// signed sum. It must always agree with the cached users.points_balance.
func LedgerBalance(ctx context.Context, db *sql.DB, userID int64) (int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT kind, amount FROM point_transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("replaying ledger: %w", err)
	}
	defer rows.Close()

	var balance int64
	for rows.Next() {
		var kind string
		var amount int64
		if err := rows.Scan(&kind, &amount); err != nil {
			return 0, fmt.Errorf("scanning ledger entry: %w", err)
		}
		balance += model.PointsSign(kind) * amount
	}
	return balance, rows.Err()
}

// UserBalance returns the cached balance for a user.
func UserBalance(ctx context.Context, db *sql.DB, userID int64) (int64, error) {
	var balance int64
	err := db.QueryRowContext(ctx,
		`SELECT points_balance FROM users WHERE id = ? AND deleted_at IS NULL`, userID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("getting balance: %w", err)
	}
	return balance, nil
}

// RedeemItem spends the redeemer's points to claim an item. The item is
// taken off the market and the owner is credited; ownership does not change
// hands until the parties arrange delivery outside the system. Returns the
// notification to enqueue for the owner.
func RedeemItem(ctx context.Context, db *sql.DB, redeemerID, itemID int64) ([]model.Notification, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := eligibleItem(ctx, tx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	if item.OwnerID == redeemerID {
		return nil, ErrSelfRedemption
	}

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT points_balance FROM users WHERE id = ? AND deleted_at IS NULL`, redeemerID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", redeemerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting balance: %w", err)
	}
	if balance < item.PointsValue {
		return nil, fmt.Errorf("balance %d, need %d: %w", balance, item.PointsValue, ErrInsufficientPoints)
	}

	// The guarded update is what makes two concurrent redemptions of the
	// same item mutually exclusive.
	if err := setItemAvailability(ctx, tx, itemID, false); err != nil {
		return nil, err
	}

	// Free items skip the ledger entirely.
	if item.PointsValue > 0 {
		desc := fmt.Sprintf("Redeemed %q", item.Title)
		if err := appendLedgerEntry(ctx, tx, redeemerID, model.PointsSpent, item.PointsValue, desc, &itemID, nil); err != nil {
			return nil, err
		}
		ownerDesc := fmt.Sprintf("%q was redeemed", item.Title)
		if err := appendLedgerEntry(ctx, tx, item.OwnerID, model.PointsEarned, item.PointsValue, ownerDesc, &itemID, nil); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing redemption: %w", err)
	}

	return []model.Notification{{
		UserID:  item.OwnerID,
		Type:    model.NotifyItemRedeemed,
		Title:   "Item Redeemed",
		Message: fmt.Sprintf("Your item %q was redeemed for %d points.", item.Title, item.PointsValue),
	}}, nil
}
