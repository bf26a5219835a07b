package cli

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pickquote/pickquote/internal/config"
	"github.com/pickquote/pickquote/internal/storage"
)

// loadConfig resolves the config file from the --config flag or the
// default location, creating it with defaults when missing.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.LoadOrCreateAt(globals.Config)
	}
	return config.LoadOrCreate()
}

// openStore opens the configured SQLite database, runs migrations, and
// returns a ready-to-use store with the underlying *sql.DB.
func openStore(globals *GlobalFlags) (*storage.SQLiteStore, *sql.DB, *config.Config, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, cfg, nil
}

// parseDuration parses a human-friendly duration string like "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration %q (use d, h, w, or m suffix)", s)
	}
}

// prettyURL renders a URL as host plus a truncated path for list output.
func prettyURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	path := u.Path
	if path == "/" {
		path = ""
	}
	if len(path) > 32 {
		path = path[:32] + "…"
	}
	return u.Hostname() + path
}

// formatTimestamp renders a unix millisecond capture time for humans.
func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// snippet truncates content for single-line list output.
func snippet(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max] + "…"
}

// printItems renders a numbered human-readable item list.
func printItems(items []storage.Item, offset int) {
	for i, it := range items {
		fmt.Printf("%d. [%s] %s\n", i+1+offset, it.Type, snippet(it.Content, 80))

		line := formatTimestamp(it.CreatedAt)
		if it.Source.Title != "" {
			line += " · " + it.Source.Title
		}
		if it.Source.URL != "" {
			line += " · " + prettyURL(it.Source.URL)
		}
		fmt.Printf("   %s\n", line)
		fmt.Printf("   id: %s\n", it.ID)

		if i < len(items)-1 {
			fmt.Println()
		}
	}
}
