package storage

import "database/sql"

// migrateV002 removes the obsolete tags index. Tagging was replaced by
// categories; the tags column stays in place because migrations never
// rewrite records.
func migrateV002(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP INDEX IF EXISTS idx_items_tags`)
	return err
}
