package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pickquote/pickquote/internal/storage"
)

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()
	defer db.Close()

	return c.executeWithStore(store, args)
}

// executeWithStore runs the search against a provided store (for testing).
// Positional args join into the keyword. The store streams every match
// newest first; limit and offset page the result here, outside the query
// engine.
func (c *SearchCommand) executeWithStore(store storage.Store, args []string) error {
	keyword := strings.Join(args, " ")

	if c.Offset < 0 {
		c.Offset = 0
	}

	now := time.Now()
	var from int64
	if c.Since != "" {
		dur, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", c.Since, err)
		}
		from = now.Add(-dur).UnixMilli()
	}

	var to int64
	if c.Until != "" {
		dur, err := parseDuration(c.Until)
		if err != nil {
			return fmt.Errorf("invalid --until value %q: %w", c.Until, err)
		}
		to = now.Add(-dur).UnixMilli()
	}

	query := storage.SearchQuery{
		Keyword:    keyword,
		Type:       storage.ItemType(c.Type),
		Site:       c.Site,
		From:       from,
		To:         to,
		CategoryID: c.Category,
	}

	results, err := store.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	page := paginate(results, c.Offset, c.Limit)

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(keyword, page)
	}
	return c.printHuman(keyword, page)
}

// paginate slices results by offset and limit. A negative offset counts
// as zero; a limit of zero or less means everything after the offset.
func paginate(items []storage.Item, offset, limit int) []storage.Item {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (c *SearchCommand) printHuman(keyword string, results []storage.Item) error {
	if len(results) == 0 {
		if keyword != "" {
			fmt.Printf("No results found for %q\n", keyword)
		} else {
			fmt.Println("No results found")
		}
		return nil
	}

	resultWord := "results"
	if len(results) == 1 {
		resultWord = "result"
	}
	if keyword != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), resultWord, keyword)
	} else {
		fmt.Printf("Found %d %s\n\n", len(results), resultWord)
	}

	printItems(results, c.Offset)
	return nil
}

type jsonResult struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Site      string `json:"site"`
	CreatedAt int64  `json:"createdAt"`
	Category  string `json:"categoryId,omitempty"`
}

type jsonSearchOutput struct {
	Count   int          `json:"count"`
	Keyword string       `json:"keyword"`
	Results []jsonResult `json:"results"`
}

func (c *SearchCommand) printJSON(keyword string, results []storage.Item) error {
	out := jsonSearchOutput{
		Count:   len(results),
		Keyword: keyword,
		Results: make([]jsonResult, len(results)),
	}

	for i, it := range results {
		out.Results[i] = jsonResult{
			ID:        it.ID,
			Type:      string(it.Type),
			Content:   it.Content,
			Title:     it.Source.Title,
			URL:       it.Source.URL,
			Site:      it.Site,
			CreatedAt: it.CreatedAt,
			Category:  it.CategoryID,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
