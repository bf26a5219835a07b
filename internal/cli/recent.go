package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for RecentCommand.
func (c *RecentCommand) Execute(args []string) error {
	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	if c.Limit <= 0 {
		c.Limit = cfg.Recent.Limit
	}

	return c.executeWithStore(store)
}

// executeWithStore runs recent against a provided store (for testing).
func (c *RecentCommand) executeWithStore(store storage.Store) error {
	items, err := store.ListRecent(context.Background(), c.Limit)
	if err != nil {
		return fmt.Errorf("list recent: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("No items captured yet.")
		return nil
	}

	printItems(items, 0)
	return nil
}
