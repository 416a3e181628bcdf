package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rewear/rewear/internal/model"
)

const itemColumns = `i.id, i.owner_id, i.category_id, i.title, i.description, i.size,
	        i.condition, i.type, i.points_value, i.available, i.approved, i.flagged,
	        i.view_count, i.created_at, i.updated_at, i.deleted_at`

// CreateItem creates a new item. Items start unapproved regardless of the
// moderation verdict; the flagged flag only marks them for admin review.
func CreateItem(ctx context.Context, db *sql.DB, ownerID, categoryID int64, title, description, size, condition, itemType string, pointsValue int64, flagged bool) (*model.Item, error) {
	if !model.ValidCondition(condition) {
		return nil, fmt.Errorf("condition %q: %w", condition, ErrInvalidItem)
	}
	if !model.ValidType(itemType) {
		return nil, fmt.Errorf("type %q: %w", itemType, ErrInvalidItem)
	}
	if pointsValue < 0 {
		return nil, fmt.Errorf("negative points value: %w", ErrInvalidItem)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (owner_id, category_id, title, description, size, condition, type, points_value, flagged)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, categoryID, title, description, size, condition, itemType, pointsValue, flagged,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, including soft-deleted ones.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description, size sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id,
	).Scan(&item.ID, &item.OwnerID, &item.CategoryID, &item.Title, &description, &size,
		&item.Condition, &item.Type, &item.PointsValue, &item.Available, &item.Approved, &item.Flagged,
		&item.ViewCount, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String
	item.Size = size.String
	return item, nil
}

// ListAvailableItems returns approved, available, non-deleted items.
func ListAvailableItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`, u.first_name || ' ' || u.last_name AS owner_name, c.name AS category_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 JOIN categories c ON c.id = i.category_id
		 WHERE i.deleted_at IS NULL AND i.approved = 1 AND i.available = 1
		 ORDER BY i.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing available items: %w", err)
	}
	defer rows.Close()

	return scanJoinedItems(rows)
}

// ListItemsByOwner returns a user's non-deleted items.
func ListItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`, u.first_name || ' ' || u.last_name AS owner_name, c.name AS category_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 JOIN categories c ON c.id = i.category_id
		 WHERE i.deleted_at IS NULL AND i.owner_id = ?
		 ORDER BY i.created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items by owner: %w", err)
	}
	defer rows.Close()

	return scanJoinedItems(rows)
}

// ListPendingItems returns items awaiting approval.
func ListPendingItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`, u.first_name || ' ' || u.last_name AS owner_name, c.name AS category_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 JOIN categories c ON c.id = i.category_id
		 WHERE i.deleted_at IS NULL AND i.approved = 0
		 ORDER BY i.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending items: %w", err)
	}
	defer rows.Close()

	return scanJoinedItems(rows)
}

// ListFlaggedItems returns items the classifier marked for review.
func ListFlaggedItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`, u.first_name || ' ' || u.last_name AS owner_name, c.name AS category_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 JOIN categories c ON c.id = i.category_id
		 WHERE i.deleted_at IS NULL AND i.flagged = 1
		 ORDER BY i.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing flagged items: %w", err)
	}
	defer rows.Close()

	return scanJoinedItems(rows)
}

// IncrementViewCount bumps an item's view counter.
func IncrementViewCount(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET view_count = view_count + 1 WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("incrementing view count: %w", err)
	}
	return nil
}

func scanJoinedItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description, size sql.NullString
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.CategoryID, &item.Title, &description, &size,
			&item.Condition, &item.Type, &item.PointsValue, &item.Available, &item.Approved, &item.Flagged,
			&item.ViewCount, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
			&item.OwnerName, &item.CategoryName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		item.Size = size.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// setItemAvailability flips an item's available flag inside tx. The guarded
// update is the compare-and-swap that makes the loser of a concurrent
// reservation fail instead of double-booking.
func setItemAvailability(ctx context.Context, tx *sql.Tx, itemID int64, available bool) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET available = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND available = ? AND deleted_at IS NULL`,
		available, itemID, !available,
	)
	if err != nil {
		return fmt.Errorf("updating item availability: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking availability update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrConflict)
	}
	return nil
}

// transferItemOwner reassigns an item to a new owner inside tx. Only the
// swap COMPLETED transition calls this.
func transferItemOwner(ctx context.Context, tx *sql.Tx, itemID, newOwnerID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET owner_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		newOwnerID, itemID,
	)
	if err != nil {
		return fmt.Errorf("transferring item owner: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking owner transfer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	return nil
}
