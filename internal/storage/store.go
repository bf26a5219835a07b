package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/pickquote/pickquote/internal/fingerprint"
)

// Store defines the persistence operations for captured items and
// categories.
type Store interface {
	Put(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	Delete(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, query SearchQuery) ([]Item, error)
	UpsertCategory(ctx context.Context, cat Category) error
	ListCategories(ctx context.Context) ([]Category, error)
	DeleteCategory(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// DefaultRecentLimit caps ListRecent when the caller passes no limit.
const DefaultRecentLimit = 10

// itemColumns is the canonical column list shared by every item query.
const itemColumns = `id, type, content, source_title, source_url, source_site,
	selector, anchor, ctx_before, ctx_after, ctx_paragraph,
	created_at, category_id, note, hash, site`

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertItem *sql.Stmt
	getItem    *sql.Stmt
	deleteItem *sql.Stmt
	findByHash *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database. The *sql.DB lifecycle stays with the caller.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("%w: prepare statements: %v", ErrOpenFailed, err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertItem, err = s.db.Prepare(`
		INSERT OR REPLACE INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getItem, err = s.db.Prepare(`SELECT ` + itemColumns + ` FROM items WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteItem, err = s.db.Prepare(`DELETE FROM items WHERE id = ?`)
	if err != nil {
		return err
	}

	s.findByHash, err = s.db.Prepare(`
		SELECT id FROM items WHERE hash = ? AND source_url = ? AND id <> ? LIMIT 1
	`)
	if err != nil {
		return err
	}

	return nil
}

// siteFromURL pulls the hostname from a URL string.
func siteFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// normalize fills the derived fields before a write: Site from Source.Site
// (falling back to the hostname of Source.URL) and Hash via the content
// fingerprint when absent. Normalization runs on every Put, so an update
// that changes the source URL also refreshes the indexed site column.
func normalize(item *Item) {
	if item.Source.Site != "" {
		item.Site = item.Source.Site
	} else {
		item.Site = siteFromURL(item.Source.URL)
	}
	if item.Hash == "" {
		item.Hash = fingerprint.Compute(item.Content, item.Source.URL)
	}
}

// Put normalizes and upserts an item keyed by ID. A candidate whose hash
// already belongs to a different item with the same source URL is a
// duplicate capture: Put returns nil without writing. The duplicate check
// and the insert are separate statements, so two concurrent Puts of the
// same capture can both commit; that race is accepted for a single-user
// local store.
func (s *SQLiteStore) Put(ctx context.Context, item *Item) error {
	if item.ID == "" {
		return fmt.Errorf("item id must not be empty")
	}
	if !ValidTypes[item.Type] {
		return fmt.Errorf("invalid item type %q", item.Type)
	}

	normalize(item)

	var existingID string
	err := s.findByHash.QueryRowContext(ctx, item.Hash, item.Source.URL, item.ID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		// no competing capture
	case err != nil:
		return fmt.Errorf("%w: dedup lookup: %v", ErrTxAborted, err)
	default:
		// Same fingerprint from the same page: suppress silently.
		return nil
	}

	var before, after, paragraph string
	if item.Context != nil {
		before = item.Context.Before
		after = item.Context.After
		paragraph = item.Context.Paragraph
	}

	_, err = s.upsertItem.ExecContext(ctx,
		item.ID, string(item.Type), item.Content,
		item.Source.Title, item.Source.URL, item.Source.Site,
		item.Source.Selector, item.Source.Anchor,
		before, after, paragraph,
		item.CreatedAt, item.CategoryID, item.Note, item.Hash, item.Site,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert item: %v", ErrTxAborted, err)
	}

	return nil
}

// Get retrieves a single item by ID. A missing item is not an error; it is
// returned as (nil, nil).
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Item, error) {
	row := s.getItem.QueryRowContext(ctx, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get item: %v", ErrTxAborted, err)
	}
	return item, nil
}

// Delete removes an item by ID. Deleting a non-existent ID is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.deleteItem.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("%w: delete item: %v", ErrTxAborted, err)
	}
	return nil
}

// ListRecent returns up to limit items ordered by creation time descending.
// Equal timestamps fall back to insertion order. A limit of zero or less
// applies DefaultRecentLimit.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := `SELECT ` + itemColumns + ` FROM items
		ORDER BY created_at DESC, rowid ASC LIMIT ?`

	return s.scanItems(ctx, query, limit)
}

// ListAll returns every item in physical insertion order. Used for export;
// the order is not chronological.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY rowid ASC`
	return s.scanItems(ctx, query)
}

// scanItems executes a query and scans results into an Item slice.
func (s *SQLiteStore) scanItems(ctx context.Context, query string, args ...interface{}) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %v", ErrTxAborted, err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", ErrTxAborted, err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate items: %v", ErrTxAborted, err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanItem reads one row in itemColumns order.
func scanItem(row scanner) (*Item, error) {
	var it Item
	var typ, before, after, paragraph string

	err := row.Scan(
		&it.ID, &typ, &it.Content,
		&it.Source.Title, &it.Source.URL, &it.Source.Site,
		&it.Source.Selector, &it.Source.Anchor,
		&before, &after, &paragraph,
		&it.CreatedAt, &it.CategoryID, &it.Note, &it.Hash, &it.Site,
	)
	if err != nil {
		return nil, err
	}

	it.Type = ItemType(typ)
	if before != "" || after != "" || paragraph != "" {
		it.Context = &Context{Before: before, After: after, Paragraph: paragraph}
	}

	return &it, nil
}

// Stats returns aggregate statistics about the capture database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{CountByType: map[ItemType]int64{}}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&stats.TotalItems)
	if err != nil {
		return nil, fmt.Errorf("%w: count items: %v", ErrTxAborted, err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&stats.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("%w: count categories: %v", ErrTxAborted, err)
	}

	if stats.TotalItems > 0 {
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(created_at), MAX(created_at) FROM items",
		).Scan(&stats.OldestCreatedAt, &stats.NewestCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: item time range: %v", ErrTxAborted, err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM items GROUP BY type",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: count by type: %v", ErrTxAborted, err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("%w: scan type count: %v", ErrTxAborted, err)
		}
		stats.CountByType[ItemType(typ)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate type counts: %v", ErrTxAborted, err)
	}

	siteRows, err := s.db.QueryContext(ctx,
		`SELECT site, COUNT(*) AS cnt FROM items WHERE site <> ''
		 GROUP BY site ORDER BY cnt DESC LIMIT 10`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: top sites: %v", ErrTxAborted, err)
	}
	defer siteRows.Close()
	for siteRows.Next() {
		var sc SiteCount
		if err := siteRows.Scan(&sc.Site, &sc.Count); err != nil {
			return nil, fmt.Errorf("%w: scan site count: %v", ErrTxAborted, err)
		}
		stats.TopSites = append(stats.TopSites, sc)
	}

	return stats, siteRows.Err()
}

// PurgeAll deletes all items and categories.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM items",
		"DELETE FROM categories",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: purge (%s): %v", ErrTxAborted, stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertItem, s.getItem, s.deleteItem, s.findByHash,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
