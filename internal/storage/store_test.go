package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a migrated in-memory Store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// A second pooled connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// textItem builds a minimal text item for tests.
func textItem(id, content, rawURL string, createdAt int64) *Item {
	return &Item{
		ID:        id,
		Type:      TypeText,
		Content:   content,
		Source:    Source{Title: "Page " + id, URL: rawURL},
		CreatedAt: createdAt,
	}
}

// --- Put + Get roundtrip ---

func TestPut_Get_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := &Item{
		ID:      "item-1",
		Type:    TypeText,
		Content: "a captured sentence",
		Source: Source{
			Title:    "An Article",
			URL:      "https://blog.example.com/post",
			Selector: "p:nth-child(3)",
		},
		Context:   &Context{Before: "lead-in", After: "follow-on", Paragraph: "the full paragraph"},
		CreatedAt: 1000,
		Note:      "worth keeping",
	}

	require.NoError(t, store.Put(ctx, item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "item-1", got.ID)
	assert.Equal(t, TypeText, got.Type)
	assert.Equal(t, "a captured sentence", got.Content)
	assert.Equal(t, "An Article", got.Source.Title)
	assert.Equal(t, "p:nth-child(3)", got.Source.Selector)
	assert.Equal(t, int64(1000), got.CreatedAt)
	assert.Equal(t, "worth keeping", got.Note)
	require.NotNil(t, got.Context)
	assert.Equal(t, "the full paragraph", got.Context.Paragraph)
}

func TestPut_DerivesSiteFromURL(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://blog.example.com/post", 1000)
	require.NoError(t, store.Put(ctx, item))

	assert.Equal(t, "blog.example.com", item.Site)

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "blog.example.com", got.Site)
}

func TestPut_PrefersExplicitSourceSite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://blog.example.com/post", 1000)
	item.Source.Site = "example.com"
	require.NoError(t, store.Put(ctx, item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", got.Site)
}

func TestPut_ComputesHash(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://example.com", 1000)
	require.NoError(t, store.Put(ctx, item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, got.Hash, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", got.Hash)
}

func TestPut_KeepsExistingHash(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://example.com", 1000)
	item.Hash = "precomputed"
	require.NoError(t, store.Put(ctx, item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "precomputed", got.Hash)
}

func TestPut_RejectsInvalidType(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://example.com", 1000)
	item.Type = "video"
	assert.Error(t, store.Put(ctx, item))
}

func TestPut_RejectsEmptyID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("", "content", "https://example.com", 1000)
	assert.Error(t, store.Put(ctx, item))
}

// --- Dedup ---

func TestPut_SuppressesDuplicateCapture(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := textItem("item-a", "same text", "https://x.com", 1000)
	b := textItem("item-b", "same text", "https://x.com", 2000)

	require.NoError(t, store.Put(ctx, a))
	require.NoError(t, store.Put(ctx, b))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "duplicate hash+url must leave exactly one record")
	assert.Equal(t, "item-a", all[0].ID)

	// The suppressed item never landed.
	got, err := store.Get(ctx, "item-b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPut_SameHashDifferentURLBothPersist(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := textItem("item-a", "content", "https://a.com", 1000)
	a.Hash = "same-fingerprint"
	b := textItem("item-b", "content", "https://b.com", 2000)
	b.Hash = "same-fingerprint"

	require.NoError(t, store.Put(ctx, a))
	require.NoError(t, store.Put(ctx, b))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "equal hash with different URLs are independent captures")
}

func TestPut_SuppressesDuplicateAmongSameHashSiblings(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Two legitimate same-hash records on different URLs, then a third
	// capture matching the second record's URL. The dedup lookup must not
	// stop at the first sibling.
	a := textItem("item-a", "content", "https://a.com", 1000)
	a.Hash = "same-fingerprint"
	b := textItem("item-b", "content", "https://b.com", 2000)
	b.Hash = "same-fingerprint"
	c := textItem("item-c", "content", "https://b.com", 3000)
	c.Hash = "same-fingerprint"

	require.NoError(t, store.Put(ctx, a))
	require.NoError(t, store.Put(ctx, b))
	require.NoError(t, store.Put(ctx, c))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "hash+url pair must stay unique regardless of sibling order")

	got, err := store.Get(ctx, "item-c")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPut_UpdateInPlace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "original content", "https://example.com", 1000)
	require.NoError(t, store.Put(ctx, item))

	updated := textItem("item-1", "original content", "https://example.com", 1000)
	updated.Hash = item.Hash
	updated.Note = "annotated later"
	updated.CategoryID = "cat-1"
	require.NoError(t, store.Put(ctx, updated))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "upsert on existing id must not grow the store")
	assert.Equal(t, "annotated later", all[0].Note)
	assert.Equal(t, "cat-1", all[0].CategoryID)
}

func TestPut_UpdateRederivesSite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item := textItem("item-1", "content", "https://old.example.com/p", 1000)
	require.NoError(t, store.Put(ctx, item))

	moved := textItem("item-1", "content", "https://new.example.com/p", 1000)
	require.NoError(t, store.Put(ctx, moved))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "new.example.com", got.Site, "normalization runs on every upsert")
}

// --- Get / Delete ---

func TestGet_Missing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.Get(ctx, "no-such-id")
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("item-1", "content", "https://example.com", 1000)))
	require.NoError(t, store.Delete(ctx, "item-1"))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_MissingIsNoop(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("item-1", "content", "https://example.com", 1000)))
	require.NoError(t, store.Delete(ctx, "no-such-id"))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "deleting a missing id leaves the store unchanged")
}

// --- ListRecent / ListAll ---

func TestListRecent_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("item-1", "one", "https://a.com/1", 1000)))
	require.NoError(t, store.Put(ctx, textItem("item-3", "three", "https://a.com/3", 3000)))
	require.NoError(t, store.Put(ctx, textItem("item-2", "two", "https://a.com/2", 2000)))

	items, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(3000), items[0].CreatedAt)
	assert.Equal(t, int64(2000), items[1].CreatedAt)
	assert.Equal(t, int64(1000), items[2].CreatedAt)
}

func TestListRecent_TiesByInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("first", "a", "https://a.com/1", 1000)))
	require.NoError(t, store.Put(ctx, textItem("second", "b", "https://a.com/2", 1000)))

	items, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].ID)
	assert.Equal(t, "second", items[1].ID)
}

func TestListRecent_DefaultLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("item-%02d", i)
		url := fmt.Sprintf("https://example.com/%d", i)
		require.NoError(t, store.Put(ctx, textItem(id, id, url, int64(1000+i))))
	}

	items, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, DefaultRecentLimit)
}

func TestListRecent_EmptyStore(t *testing.T) {
	store := openTestStore(t)

	items, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListAll_InsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Inserted out of chronological order on purpose.
	require.NoError(t, store.Put(ctx, textItem("item-b", "b", "https://a.com/b", 3000)))
	require.NoError(t, store.Put(ctx, textItem("item-a", "a", "https://a.com/a", 1000)))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "item-b", all[0].ID)
	assert.Equal(t, "item-a", all[1].ID)
}

// --- Stats / PurgeAll ---

func TestStats_EmptyDB(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalItems)
	assert.Equal(t, int64(0), stats.TotalCategories)
}

func TestStats_WithData(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("item-1", "a", "https://a.com/1", 1000)))
	require.NoError(t, store.Put(ctx, textItem("item-2", "b", "https://a.com/2", 3000)))

	link := textItem("item-3", "https://b.com", "https://b.com/page", 2000)
	link.Type = TypeLink
	require.NoError(t, store.Put(ctx, link))

	require.NoError(t, store.UpsertCategory(ctx, Category{ID: "cat-1", Name: "reading"}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalItems)
	assert.Equal(t, int64(1), stats.TotalCategories)
	assert.Equal(t, int64(2), stats.CountByType[TypeText])
	assert.Equal(t, int64(1), stats.CountByType[TypeLink])
	assert.Equal(t, int64(1000), stats.OldestCreatedAt)
	assert.Equal(t, int64(3000), stats.NewestCreatedAt)
	require.NotEmpty(t, stats.TopSites)
	assert.Equal(t, "a.com", stats.TopSites[0].Site)
	assert.Equal(t, int64(2), stats.TopSites[0].Count)
}

func TestPurgeAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, textItem("item-1", "a", "https://a.com", 1000)))
	require.NoError(t, store.UpsertCategory(ctx, Category{ID: "cat-1", Name: "reading"}))

	require.NoError(t, store.PurgeAll(ctx))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestClose(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.Close())
}
