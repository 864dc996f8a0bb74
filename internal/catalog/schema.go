package catalog

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS media_entries (
			path TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			type TEXT NOT NULL,
			duration REAL NOT NULL DEFAULT 0,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			probe_error TEXT,
			probed_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_media_entries_root ON media_entries(root);
	`)
	if err != nil {
		return err
	}

	var version int
	err = conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return err
	}
	if version < currentSchemaVersion {
		if _, err := conn.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return err
		}
	}
	return nil
}
