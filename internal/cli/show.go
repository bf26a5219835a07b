package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs show against a provided store (for testing).
func (c *ShowCommand) executeWithStore(store storage.Store) error {
	item, err := store.Get(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("no item with id %s", c.ID)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	}

	fmt.Printf("ID:        %s\n", item.ID)
	fmt.Printf("Type:      %s\n", item.Type)
	fmt.Printf("Captured:  %s\n", formatTimestamp(item.CreatedAt))
	if item.Source.Title != "" {
		fmt.Printf("Title:     %s\n", item.Source.Title)
	}
	fmt.Printf("URL:       %s\n", item.Source.URL)
	fmt.Printf("Site:      %s\n", item.Site)
	if item.CategoryID != "" {
		fmt.Printf("Category:  %s\n", item.CategoryID)
	}
	if item.Note != "" {
		fmt.Printf("Note:      %s\n", item.Note)
	}
	fmt.Printf("Hash:      %s\n", item.Hash)
	fmt.Println()
	fmt.Println(item.Content)

	return nil
}
