package state

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations run from the embedded migrations package.
func (db *DB) RunMigrations() error {
	migration := `
-- Single-row table holding the last saved editor state
CREATE TABLE IF NOT EXISTS editor_state (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    project_id TEXT NOT NULL,
    active_path TEXT NOT NULL DEFAULT '',
    saved_at TIMESTAMP NOT NULL
);

-- Tabs open at save time, in insertion order
CREATE TABLE IF NOT EXISTS open_tabs (
    position INTEGER NOT NULL,
    path TEXT NOT NULL,
    PRIMARY KEY (position)
);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
