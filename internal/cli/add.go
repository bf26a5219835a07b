package cli

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs the add logic against a provided store (used by tests).
func (c *AddCommand) executeWithStore(store storage.Store) error {
	parsed, err := url.ParseRequestURI(c.URL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s", c.URL)
	}

	itemType := storage.ItemType(c.Type)
	if !storage.ValidTypes[itemType] {
		return fmt.Errorf("invalid type %q (use text, image, link, or snapshot)", c.Type)
	}

	if c.Content != "" && c.ContentFile != "" {
		return fmt.Errorf("--content and --content-file are mutually exclusive")
	}

	content := c.Content
	if c.ContentFile != "" {
		data, err := os.ReadFile(c.ContentFile)
		if err != nil {
			return fmt.Errorf("reading content file: %w", err)
		}
		content = string(data)
	}

	// A link capture with no explicit content is the URL itself.
	if content == "" && itemType == storage.TypeLink {
		content = c.URL
	}
	if content == "" {
		return fmt.Errorf("--content or --content-file is required for type %q", c.Type)
	}

	item := &storage.Item{
		ID:      newID(),
		Type:    itemType,
		Content: content,
		Source: storage.Source{
			Title: c.Title,
			URL:   c.URL,
			Site:  c.Site,
		},
		CreatedAt:  time.Now().UnixMilli(),
		CategoryID: c.Category,
		Note:       c.Note,
	}

	if err := store.Put(context.Background(), item); err != nil {
		return fmt.Errorf("storing item: %w", err)
	}

	// Put suppresses duplicate captures silently; tell the user which
	// record actually exists now.
	stored, err := store.Get(context.Background(), item.ID)
	if err != nil {
		return fmt.Errorf("reading back item: %w", err)
	}
	duplicate := stored == nil

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"id":        item.ID,
			"type":      item.Type,
			"site":      item.Site,
			"hash":      item.Hash,
			"duplicate": duplicate,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if duplicate {
		fmt.Printf("Skipped: identical capture from %s already stored\n", prettyURL(c.URL))
		return nil
	}

	fmt.Printf("Added %s item %s\n", item.Type, item.ID)
	fmt.Printf("  Site: %s\n", item.Site)
	fmt.Printf("  Hash: %s\n", item.Hash)

	return nil
}

// newID generates a ULID for a freshly captured item.
func newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
