package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pickquote/pickquote/internal/export"
	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	if c.Out == "" {
		c.Out = cfg.Export.File
	}

	return c.executeWithStore(store)
}

// executeWithStore runs the export against a provided store (for testing).
func (c *ExportCommand) executeWithStore(store storage.Store) error {
	items, err := store.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := export.WriteZip(items, f); err != nil {
		return fmt.Errorf("write export bundle: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"file":  c.Out,
			"items": len(items),
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Exported %d items to %s\n", len(items), c.Out)
	return nil
}
