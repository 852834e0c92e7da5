package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ricsouza/trecos/internal/model"
)

// CreateItem inserts a new item with a generated id, status "on" and the
// creation timestamp stamped at write time. It returns the assigned id.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (string, error) {
	id := ulid.Make().String()
	createdAt := model.FormatTime(time.Now())

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, description, location, image, owner_id, created_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Name, item.Description, item.Location, item.Image, item.OwnerID, createdAt, model.StatusOn,
	)
	if err != nil {
		return "", fmt.Errorf("creating item: %w", err)
	}

	return id, nil
}

// GetItem returns an item by ID, including soft-deleted ones; visibility
// policy is the caller's concern.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, location, image, owner_id, created_at, status
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Location, &item.Image, &item.OwnerID, &item.CreatedAt, &item.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// PatchItemStatus updates only the status column, leaving every other field
// untouched. Last writer wins; there is no version check.
func PatchItemStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("patching item status: %w", err)
	}
	return nil
}

// ListItems returns all items that are not soft-deleted, sorted by status
// descending ("on" before "off") and newest-first within each status group.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, location, image, owner_id, created_at, status
		 FROM items WHERE status != ?
		 ORDER BY status DESC, created_at DESC`, model.StatusDel,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Location, &item.Image, &item.OwnerID, &item.CreatedAt, &item.Status); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
