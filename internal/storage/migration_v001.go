package storage

import "database/sql"

// migrateV001 creates the initial pickquote schema: the items and
// categories tables with their secondary indexes, plus the reserved
// sources table. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS items (
			id            TEXT PRIMARY KEY,
			type          TEXT NOT NULL CHECK (type IN ('text', 'image', 'link', 'snapshot')),
			content       TEXT NOT NULL DEFAULT '',
			source_title  TEXT NOT NULL DEFAULT '',
			source_url    TEXT NOT NULL DEFAULT '',
			source_site   TEXT NOT NULL DEFAULT '',
			selector      TEXT NOT NULL DEFAULT '',
			anchor        TEXT NOT NULL DEFAULT '',
			ctx_before    TEXT NOT NULL DEFAULT '',
			ctx_after     TEXT NOT NULL DEFAULT '',
			ctx_paragraph TEXT NOT NULL DEFAULT '',
			created_at    INTEGER NOT NULL DEFAULT 0,
			category_id   TEXT NOT NULL DEFAULT '',
			note          TEXT NOT NULL DEFAULT '',
			hash          TEXT NOT NULL DEFAULT '',
			site          TEXT NOT NULL DEFAULT '',
			tags          TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT ''
		)`,

		// Reserved for per-site metadata; nothing writes it yet.
		`CREATE TABLE IF NOT EXISTS sources (
			site TEXT PRIMARY KEY
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_items_type     ON items(type)`,
		`CREATE INDEX IF NOT EXISTS idx_items_created  ON items(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_items_site     ON items(site)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_hash     ON items(hash)`,
		`CREATE INDEX IF NOT EXISTS idx_items_tags     ON items(tags)`,

		// Category names are unique by UI convention only; the index is
		// advisory and deliberately not declared UNIQUE.
		`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
