package storage

import (
	"context"
	"fmt"
)

// UpsertCategory inserts or replaces a category keyed by ID. Name
// uniqueness is not enforced here; the review UI treats names as unique
// but the store does not.
func (s *SQLiteStore) UpsertCategory(ctx context.Context, cat Category) error {
	if cat.ID == "" {
		return fmt.Errorf("category id must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO categories (id, name) VALUES (?, ?)",
		cat.ID, cat.Name,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert category: %v", ErrTxAborted, err)
	}
	return nil
}

// ListCategories returns all categories in insertion order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM categories ORDER BY rowid ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query categories: %v", ErrTxAborted, err)
	}
	defer rows.Close()

	cats := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%w: scan category: %v", ErrTxAborted, err)
		}
		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", ErrTxAborted, err)
	}

	return cats, nil
}

// DeleteCategory removes a category by ID. Items referencing it keep
// their CategoryID; orphaned references are tolerated, never auto-cleared.
// Deleting a non-existent ID is a no-op.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: delete category: %v", ErrTxAborted, err)
	}
	return nil
}
