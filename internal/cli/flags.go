package cli

import "github.com/pickquote/pickquote/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AddCommand — capture a text/image/link/snapshot item into the store.
type AddCommand struct {
	Type        string `long:"type" description:"Item type: text | image | link | snapshot" default:"text"`
	Content     string `long:"content" description:"Inline captured content"`
	ContentFile string `long:"content-file" description:"Path to file containing the content"`
	URL         string `long:"url" description:"Source page URL (required)"`
	Title       string `long:"title" description:"Source page title"`
	Site        string `long:"site" description:"Override the source site (defaults to the URL hostname)"`
	Note        string `long:"note" description:"Free-text annotation"`
	Category    string `long:"category" description:"Category id to file the item under"`

	globals *GlobalFlags
	version string
}

// ShowCommand — print a single item by id.
type ShowCommand struct {
	ID string `long:"id" description:"Item id (required)"`

	globals *GlobalFlags
	version string
}

// RmCommand — delete an item by id.
type RmCommand struct {
	ID string `long:"id" description:"Item id (required)"`

	globals *GlobalFlags
	version string
}

// RecentCommand — list the most recently captured items.
type RecentCommand struct {
	Limit int `long:"limit" description:"Maximum results (config default when omitted)"`

	globals *GlobalFlags
	version string
}

// SearchCommand — search captured items by keyword with filters.
type SearchCommand struct {
	Type     string `long:"type" description:"Filter by item type"`
	Site     string `long:"site" description:"Filter by source site"`
	Since    string `long:"since" description:"Only items newer than duration (e.g., 7d, 24h)"`
	Until    string `long:"until" description:"Only items older than duration"`
	Category string `long:"category" description:"Filter by category id"`
	Limit    int    `long:"limit" description:"Maximum results" default:"10"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// ExportCommand — bundle all items into a zip archive.
type ExportCommand struct {
	Out string `long:"out" description:"Output zip path (config default when omitted)"`

	globals *GlobalFlags
	version string
}

// CatAddCommand — create or rename a category.
type CatAddCommand struct {
	ID   string `long:"id" description:"Category id (required)"`
	Name string `long:"name" description:"Category name (required)"`

	globals *GlobalFlags
	version string
}

// CatListCommand — list all categories.
type CatListCommand struct {
	globals *GlobalFlags
	version string
}

// CatRmCommand — delete a category, leaving its items untouched.
type CatRmCommand struct {
	ID string `long:"id" description:"Category id (required)"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show database statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL captured data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   storage.Store // injectable for testing; nil means open default store
}
