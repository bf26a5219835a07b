package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pickquote/pickquote/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string           `json:"version"`
	DatabasePath      string           `json:"database_path"`
	DatabaseSizeBytes int64            `json:"database_size_bytes"`
	TotalItems        int64            `json:"total_items"`
	TotalCategories   int64            `json:"total_categories"`
	CountByType       map[string]int64 `json:"count_by_type"`
	OldestItem        string           `json:"oldest_item,omitempty"`
	NewestItem        string           `json:"newest_item,omitempty"`
	TopSites          []siteCountJSON  `json:"top_sites"`
}

type siteCountJSON struct {
	Site  string `json:"site"`
	Count int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}

	return c.executeWithStore(store, db, dbPath)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, db *sql.DB, dbPath string) error {
	stats, err := store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbSize := getDatabaseSize(db, dbPath)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, dbPath, dbSize)
	}
	return c.printStatusHuman(stats, dbPath, dbSize)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string, dbSize int64) error {
	fmt.Println("Pickquote Status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Items:         %s\n", formatNumber(stats.TotalItems))
	fmt.Printf("Categories:    %s\n", formatNumber(stats.TotalCategories))

	if len(stats.CountByType) > 0 {
		fmt.Println()
		fmt.Println("By Type:")
		for _, typ := range []storage.ItemType{storage.TypeText, storage.TypeImage, storage.TypeLink, storage.TypeSnapshot} {
			if n, ok := stats.CountByType[typ]; ok {
				fmt.Printf("  %-10s %s\n", typ, formatNumber(n))
			}
		}
	}

	if stats.TotalItems > 0 {
		fmt.Println()
		fmt.Printf("Oldest:        %s\n", time.UnixMilli(stats.OldestCreatedAt).Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", time.UnixMilli(stats.NewestCreatedAt).Local().Format("2006-01-02"))
	}

	if len(stats.TopSites) > 0 {
		fmt.Println()
		fmt.Println("Top Sites:")
		for _, s := range stats.TopSites {
			fmt.Printf("  %-24s %s\n", s.Site, formatNumber(s.Count))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, dbSize int64) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		TotalItems:        stats.TotalItems,
		TotalCategories:   stats.TotalCategories,
		CountByType:       map[string]int64{},
		TopSites:          make([]siteCountJSON, len(stats.TopSites)),
	}

	for typ, n := range stats.CountByType {
		out.CountByType[string(typ)] = n
	}

	if stats.TotalItems > 0 {
		out.OldestItem = time.UnixMilli(stats.OldestCreatedAt).UTC().Format(time.RFC3339)
		out.NewestItem = time.UnixMilli(stats.NewestCreatedAt).UTC().Format(time.RFC3339)
	}

	for i, s := range stats.TopSites {
		out.TopSites[i] = siteCountJSON{Site: s.Site, Count: s.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getDatabaseSize returns the database file size in bytes. For on-disk
// databases it uses os.Stat; for in-memory databases it falls back to
// page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
