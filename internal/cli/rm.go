package cli

import (
	"context"
	"fmt"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for RmCommand.
func (c *RmCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for rm command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs rm against a provided store (for testing).
// Deleting an id that does not exist succeeds silently.
func (c *RmCommand) executeWithStore(store storage.Store) error {
	if err := store.Delete(context.Background(), c.ID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	fmt.Printf("Removed %s\n", c.ID)
	return nil
}
