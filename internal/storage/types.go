package storage

// ItemType classifies what kind of payload an item carries.
type ItemType string

const (
	TypeText     ItemType = "text"
	TypeImage    ItemType = "image"
	TypeLink     ItemType = "link"
	TypeSnapshot ItemType = "snapshot"
)

// ValidTypes enumerates the accepted item types.
var ValidTypes = map[ItemType]bool{
	TypeText:     true,
	TypeImage:    true,
	TypeLink:     true,
	TypeSnapshot: true,
}

// Source holds provenance metadata for a captured item.
type Source struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Site     string `json:"site,omitempty"`
	Selector string `json:"selector,omitempty"`
	Anchor   string `json:"anchor,omitempty"`
}

// Context holds the text surrounding a text capture. Informational only,
// never indexed.
type Context struct {
	Before    string `json:"before,omitempty"`
	After     string `json:"after,omitempty"`
	Paragraph string `json:"paragraph,omitempty"`
}

// Item is a single captured unit of content. Content is raw text, a URL,
// or an inline-encoded image depending on Type. CreatedAt is a unix
// millisecond timestamp assigned at capture time and used as the sort key.
// Site is a denormalized copy of Source.Site (derived from Source.URL when
// absent), kept in its own indexed column; it is set at write time and not
// re-derived on reads. Hash is the content fingerprint used for dedup.
type Item struct {
	ID         string   `json:"id"`
	Type       ItemType `json:"type"`
	Content    string   `json:"content"`
	Source     Source   `json:"source"`
	Context    *Context `json:"context,omitempty"`
	CreatedAt  int64    `json:"createdAt"`
	CategoryID string   `json:"categoryId,omitempty"`
	Note       string   `json:"note,omitempty"`
	Hash       string   `json:"hash,omitempty"`
	Site       string   `json:"sourceSite,omitempty"`
}

// Category is a user-defined label referenced by items via CategoryID.
// Deleting a category never touches the items that reference it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchQuery defines conjunctive filters for searching items. Zero-valued
// fields impose no constraint; an empty query matches everything. From and
// To are inclusive unix millisecond bounds on CreatedAt.
type SearchQuery struct {
	Keyword    string
	Site       string
	Type       ItemType
	From       int64
	To         int64
	CategoryID string
}

// Stats holds aggregate statistics about the capture database.
type Stats struct {
	TotalItems      int64
	TotalCategories int64
	CountByType     map[ItemType]int64
	OldestCreatedAt int64
	NewestCreatedAt int64
	TopSites        []SiteCount
}

// SiteCount pairs a source site with its item count.
type SiteCount struct {
	Site  string
	Count int64
}
