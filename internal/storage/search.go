package storage

import (
	"context"
	"fmt"
	"strings"
)

// Search evaluates a structured query against the items table. Filters are
// conjunctive; zero-valued fields impose no constraint, so an empty query
// returns every item. Results stream from the created_at index newest
// first, with insertion order breaking ties, so two calls with the same
// query and unchanged data return identical sequences. Pagination is the
// caller's concern.
func (s *SQLiteStore) Search(ctx context.Context, q SearchQuery) ([]Item, error) {
	var clauses []string
	var args []interface{}

	if q.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Site != "" {
		clauses = append(clauses, "site = ?")
		args = append(args, q.Site)
	}
	if q.From != 0 {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, q.From)
	}
	if q.To != 0 {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, q.To)
	}
	if q.CategoryID != "" {
		clauses = append(clauses, "category_id = ?")
		args = append(args, q.CategoryID)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := fmt.Sprintf(
		"SELECT %s FROM items%s ORDER BY created_at DESC, rowid ASC",
		itemColumns, where,
	)

	items, err := s.scanItems(ctx, query, args...)
	if err != nil || q.Keyword == "" {
		return items, err
	}

	// Keyword matching runs on the scanned rows rather than in SQL:
	// SQLite's lower() folds ASCII only, strings.ToLower handles full
	// Unicode. Order is already fixed by the query.
	kw := strings.ToLower(q.Keyword)
	matched := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Content), kw) ||
			strings.Contains(strings.ToLower(it.Source.Title), kw) {
			matched = append(matched, it)
		}
	}
	return matched, nil
}
