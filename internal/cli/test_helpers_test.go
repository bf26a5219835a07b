package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pickquote/pickquote/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testStore creates a temporary SQLite database with migrations applied and
// returns a storage store along with its underlying db.
func testStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// seedItem stores a text item with a predictable id and timestamp.
func seedItem(t *testing.T, store storage.Store, id, content, rawURL string, createdAt int64) *storage.Item {
	t.Helper()
	item := &storage.Item{
		ID:      id,
		Type:    storage.TypeText,
		Content: content,
		Source: storage.Source{
			Title: fmt.Sprintf("Page %s", id),
			URL:   rawURL,
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, store.Put(context.Background(), item))
	return item
}
