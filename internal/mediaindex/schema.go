package mediaindex

import "database/sql"

const currentSchemaVersion = 1

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			mtime INTEGER NOT NULL,
			size INTEGER NOT NULL DEFAULT 0,
			display_name TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			title TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			is_music INTEGER NOT NULL DEFAULT 1,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_media_display_name ON media(display_name COLLATE NOCASE);
	`)
	if err != nil {
		return err
	}

	_, err = conn.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}
