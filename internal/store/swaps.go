package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewear/rewear/internal/model"
)

const swapColumns = `s.id, s.initiator_id, s.recipient_id, s.initiator_item_id, s.recipient_item_id,
	        s.status, s.points_exchanged, s.created_at, s.updated_at`

// ProposeSwap creates a PENDING swap between the initiator's item and the
// recipient's item. pointsOffered is an optional sweetener the initiator
// pays on completion. Returns the swap and the notification to enqueue
// after the call succeeds.
func ProposeSwap(ctx context.Context, db *sql.DB, initiatorID, initiatorItemID, recipientItemID, pointsOffered int64) (*model.Swap, []model.Notification, error) {
	if pointsOffered < 0 {
		return nil, nil, fmt.Errorf("points offered: %w", ErrInvalidAmount)
	}
	if initiatorItemID == recipientItemID {
		return nil, nil, ErrInvalidItem
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	initiatorItem, err := eligibleItem(ctx, tx, initiatorItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("initiator item %d: %w", initiatorItemID, err)
	}
	recipientItem, err := eligibleItem(ctx, tx, recipientItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("recipient item %d: %w", recipientItemID, err)
	}

	if initiatorItem.OwnerID != initiatorID {
		return nil, nil, fmt.Errorf("initiator item %d: %w", initiatorItemID, ErrInvalidItem)
	}
	if recipientItem.OwnerID == initiatorID {
		return nil, nil, ErrSelfSwap
	}

	// Exact duplicate: same initiator offering the same pair again.
	var dup int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps
		 WHERE initiator_id = ? AND initiator_item_id = ? AND recipient_item_id = ? AND status = 'PENDING'`,
		initiatorID, initiatorItemID, recipientItemID,
	).Scan(&dup)
	if err != nil {
		return nil, nil, fmt.Errorf("checking duplicate proposal: %w", err)
	}
	if dup > 0 {
		return nil, nil, ErrDuplicateRequest
	}

	// An item may sit in at most one non-terminal swap at a time.
	var busy int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swaps
		 WHERE status IN ('PENDING', 'ACCEPTED')
		   AND (initiator_item_id IN (?, ?) OR recipient_item_id IN (?, ?))`,
		initiatorItemID, recipientItemID, initiatorItemID, recipientItemID,
	).Scan(&busy)
	if err != nil {
		return nil, nil, fmt.Errorf("checking open swaps: %w", err)
	}
	if busy > 0 {
		return nil, nil, fmt.Errorf("item already in an open swap: %w", ErrConflict)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO swaps (initiator_id, recipient_id, initiator_item_id, recipient_item_id, points_exchanged)
		 VALUES (?, ?, ?, ?, ?)`,
		initiatorID, recipientItem.OwnerID, initiatorItemID, recipientItemID, pointsOffered,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating swap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing swap proposal: %w", err)
	}

	swapID, _ := result.LastInsertId()
	swap, err := GetSwap(ctx, db, swapID)
	if err != nil {
		return nil, nil, err
	}

	events := []model.Notification{{
		UserID:        swap.RecipientID,
		Type:          model.NotifySwapProposed,
		Title:         "New Swap Request",
		Message:       fmt.Sprintf("Someone offered %q for your %q.", initiatorItem.Title, recipientItem.Title),
		RelatedSwapID: &swap.ID,
	}}
	return swap, events, nil
}

// TransitionSwap moves a swap to the requested status on behalf of actorID,
// applying all side effects (item reservation/release, ownership exchange,
// points settlement) in one atomic unit. It returns the updated swap and
// the notifications to enqueue after the transaction has committed.
func TransitionSwap(ctx context.Context, db *sql.DB, swapID, actorID int64, next string) (*model.Swap, []model.Notification, error) {
	if !model.ValidSwapStatus(next) || next == model.SwapPending {
		return nil, nil, fmt.Errorf("status %q: %w", next, ErrInvalidTransition)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	swap := &model.Swap{}
	err = tx.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swaps s WHERE s.id = ?`, swapID,
	).Scan(&swap.ID, &swap.InitiatorID, &swap.RecipientID, &swap.InitiatorItemID, &swap.RecipientItemID,
		&swap.Status, &swap.PointsExchanged, &swap.CreatedAt, &swap.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("swap %d: %w", swapID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting swap: %w", err)
	}

	if actorID != swap.InitiatorID && actorID != swap.RecipientID {
		return nil, nil, ErrForbidden
	}
	if !model.SwapReachable(swap.Status, next) {
		return nil, nil, fmt.Errorf("%s -> %s: %w", swap.Status, next, ErrInvalidTransition)
	}

	// Role rules: only the recipient answers a proposal, only the initiator
	// confirms hand-over, either party may cancel.
	switch next {
	case model.SwapAccepted, model.SwapRejected:
		if actorID != swap.RecipientID {
			return nil, nil, ErrForbidden
		}
	case model.SwapCompleted:
		if actorID != swap.InitiatorID {
			return nil, nil, ErrForbidden
		}
	}

	// Compare-and-swap on the status. A concurrent transition that committed
	// between our read and this write leaves zero rows affected.
	result, err := tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		next, swapID, swap.Status,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("updating swap status: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, nil, fmt.Errorf("checking status update: %w", err)
	} else if n == 0 {
		return nil, nil, fmt.Errorf("swap %d: %w", swapID, ErrConflict)
	}

	var events []model.Notification

	switch next {
	case model.SwapAccepted:
		// Reserve both items so neither can be offered or redeemed elsewhere.
		if err := setItemAvailability(ctx, tx, swap.InitiatorItemID, false); err != nil {
			return nil, nil, err
		}
		if err := setItemAvailability(ctx, tx, swap.RecipientItemID, false); err != nil {
			return nil, nil, err
		}
		events = append(events, model.Notification{
			UserID:        swap.InitiatorID,
			Type:          model.NotifySwapAccepted,
			Title:         "Swap Request Accepted",
			Message:       fmt.Sprintf("Your swap request %d has been accepted.", swap.ID),
			RelatedSwapID: &swap.ID,
		})

	case model.SwapRejected:
		events = append(events, model.Notification{
			UserID:        swap.InitiatorID,
			Type:          model.NotifySwapRejected,
			Title:         "Swap Request Rejected",
			Message:       fmt.Sprintf("Your swap request %d has been rejected.", swap.ID),
			RelatedSwapID: &swap.ID,
		})

	case model.SwapCancelled:
		// Items are only reserved once the swap was accepted.
		if swap.Status == model.SwapAccepted {
			if err := setItemAvailability(ctx, tx, swap.InitiatorItemID, true); err != nil {
				return nil, nil, err
			}
			if err := setItemAvailability(ctx, tx, swap.RecipientItemID, true); err != nil {
				return nil, nil, err
			}
		}
		other := swap.RecipientID
		if actorID == swap.RecipientID {
			other = swap.InitiatorID
		}
		events = append(events, model.Notification{
			UserID:        other,
			Type:          model.NotifySwapCancelled,
			Title:         "Swap Cancelled",
			Message:       fmt.Sprintf("Swap %d has been cancelled by the other party.", swap.ID),
			RelatedSwapID: &swap.ID,
		})

	case model.SwapCompleted:
		// Exchange ownership and put both items back in circulation.
		if err := transferItemOwner(ctx, tx, swap.InitiatorItemID, swap.RecipientID); err != nil {
			return nil, nil, err
		}
		if err := transferItemOwner(ctx, tx, swap.RecipientItemID, swap.InitiatorID); err != nil {
			return nil, nil, err
		}
		if err := setItemAvailability(ctx, tx, swap.InitiatorItemID, true); err != nil {
			return nil, nil, err
		}
		if err := setItemAvailability(ctx, tx, swap.RecipientItemID, true); err != nil {
			return nil, nil, err
		}

		// Matched debit/credit pair, never applied partially.
		if swap.PointsExchanged > 0 {
			desc := fmt.Sprintf("Points for swap %d", swap.ID)
			if err := appendLedgerEntry(ctx, tx, swap.InitiatorID, model.PointsSpent, swap.PointsExchanged, desc, nil, &swap.ID); err != nil {
				return nil, nil, err
			}
			if err := appendLedgerEntry(ctx, tx, swap.RecipientID, model.PointsEarned, swap.PointsExchanged, desc, nil, &swap.ID); err != nil {
				return nil, nil, err
			}
		}

		for _, userID := range []int64{swap.InitiatorID, swap.RecipientID} {
			events = append(events, model.Notification{
				UserID:        userID,
				Type:          model.NotifySwapCompleted,
				Title:         "Swap Completed",
				Message:       fmt.Sprintf("Swap %d has been completed.", swap.ID),
				RelatedSwapID: &swap.ID,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing transition: %w", err)
	}

	updated, err := GetSwap(ctx, db, swapID)
	if err != nil {
		return nil, nil, err
	}
	return updated, events, nil
}

// GetSwap returns a swap by ID.
func GetSwap(ctx context.Context, db *sql.DB, id int64) (*model.Swap, error) {
	s := &model.Swap{}
	err := db.QueryRowContext(ctx,
		`SELECT `+swapColumns+`, ii.title AS initiator_item_title, ri.title AS recipient_item_title
		 FROM swaps s
		 JOIN items ii ON ii.id = s.initiator_item_id
		 JOIN items ri ON ri.id = s.recipient_item_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.InitiatorID, &s.RecipientID, &s.InitiatorItemID, &s.RecipientItemID,
		&s.Status, &s.PointsExchanged, &s.CreatedAt, &s.UpdatedAt,
		&s.InitiatorItemTitle, &s.RecipientItemTitle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting swap: %w", err)
	}
	return s, nil
}

// ListSwapsForUser returns swaps where the user is a party, newest first,
// optionally filtered by status.
func ListSwapsForUser(ctx context.Context, db *sql.DB, userID int64, status string) ([]model.Swap, error) {
	query := `SELECT ` + swapColumns + `, ii.title AS initiator_item_title, ri.title AS recipient_item_title
	          FROM swaps s
	          JOIN items ii ON ii.id = s.initiator_item_id
	          JOIN items ri ON ri.id = s.recipient_item_id
	          WHERE (s.initiator_id = ? OR s.recipient_id = ?)`
	args := []any{userID, userID}

	if status != "" {
		query += ` AND s.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY s.created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing swaps: %w", err)
	}
	defer rows.Close()

	var swaps []model.Swap
	for rows.Next() {
		var s model.Swap
		if err := rows.Scan(&s.ID, &s.InitiatorID, &s.RecipientID, &s.InitiatorItemID, &s.RecipientItemID,
			&s.Status, &s.PointsExchanged, &s.CreatedAt, &s.UpdatedAt,
			&s.InitiatorItemTitle, &s.RecipientItemTitle); err != nil {
			return nil, fmt.Errorf("scanning swap: %w", err)
		}
		swaps = append(swaps, s)
	}
	return swaps, rows.Err()
}

// eligibleItem loads an item inside tx and checks it can enter a swap or
// redemption: it exists, is approved, and is available.
func eligibleItem(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description, size sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ? AND i.deleted_at IS NULL`, id,
	).Scan(&item.ID, &item.OwnerID, &item.CategoryID, &item.Title, &description, &size,
		&item.Condition, &item.Type, &item.PointsValue, &item.Available, &item.Approved, &item.Flagged,
		&item.ViewCount, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if !item.Approved || !item.Available {
		return nil, ErrInvalidItem
	}
	item.Description = description.String
	item.Size = size.String
	return item, nil
}
