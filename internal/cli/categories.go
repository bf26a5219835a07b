package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for CatAddCommand.
func (c *CatAddCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for cat-add command")
	}
	if c.Name == "" {
		return fmt.Errorf("--name is required for cat-add command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

func (c *CatAddCommand) executeWithStore(store storage.Store) error {
	cat := storage.Category{ID: c.ID, Name: c.Name}
	if err := store.UpsertCategory(context.Background(), cat); err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}

	fmt.Printf("Category %s = %q\n", cat.ID, cat.Name)
	return nil
}

// Execute implements the go-flags Commander interface for CatListCommand.
func (c *CatListCommand) Execute(args []string) error {
	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

func (c *CatListCommand) executeWithStore(store storage.Store) error {
	cats, err := store.ListCategories(context.Background())
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cats)
	}

	if len(cats) == 0 {
		fmt.Println("No categories defined.")
		return nil
	}

	for _, cat := range cats {
		fmt.Printf("%s  %s\n", cat.ID, cat.Name)
	}
	return nil
}

// Execute implements the go-flags Commander interface for CatRmCommand.
func (c *CatRmCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for cat-rm command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

// executeWithStore deletes the category; items keep their categoryId.
func (c *CatRmCommand) executeWithStore(store storage.Store) error {
	if err := store.DeleteCategory(context.Background(), c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	fmt.Printf("Removed category %s\n", c.ID)
	return nil
}
