package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Client: small key/value store for UI preferences (theme).
	`CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Client: cookies received from the report server, replayed on the next run.
	`CREATE TABLE IF NOT EXISTS cookies (
		host       TEXT NOT NULL,
		name       TEXT NOT NULL,
		path       TEXT NOT NULL DEFAULT '/',
		value      TEXT NOT NULL,
		expires_at TEXT,
		secure     INTEGER NOT NULL DEFAULT 0,
		http_only  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (host, name, path)
	)`,

	// Server: signed-in sessions keyed by the session_id cookie value.
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		login       TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		avatar_url  TEXT NOT NULL DEFAULT '',
		token_json  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		expires_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
}
