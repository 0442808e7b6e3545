package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoState indicates no editor state has been persisted yet.
var ErrNoState = errors.New("no saved editor state")

// Snapshot is the editor state persisted between runs: which project was
// open, which tabs, and which one had focus. Content is never persisted; the
// backend owns it.
type Snapshot struct {
	ProjectID  string
	OpenPaths  []string
	ActivePath string
	SavedAt    time.Time
}

// Store persists editor snapshots in SQLite.
type Store struct {
	db *DB
}

// NewStore creates a snapshot store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Save replaces the persisted snapshot wholesale.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO editor_state (id, project_id, active_path, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			active_path = excluded.active_path,
			saved_at = excluded.saved_at
	`
	if _, err := tx.ExecContext(ctx, query, snap.ProjectID, snap.ActivePath, snap.SavedAt); err != nil {
		return fmt.Errorf("failed to save editor state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM open_tabs"); err != nil {
		return fmt.Errorf("failed to clear open tabs: %w", err)
	}
	for i, path := range snap.OpenPaths {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO open_tabs (position, path) VALUES (?, ?)", i, path); err != nil {
			return fmt.Errorf("failed to save open tab: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit editor state: %w", err)
	}
	return nil
}

// Load returns the persisted snapshot, or ErrNoState when none exists.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		"SELECT project_id, active_path, saved_at FROM editor_state WHERE id = 1").
		Scan(&snap.ProjectID, &snap.ActivePath, &snap.SavedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load editor state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM open_tabs ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to load open tabs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan open tab: %w", err)
		}
		snap.OpenPaths = append(snap.OpenPaths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read open tabs: %w", err)
	}
	return &snap, nil
}

// Clear removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM editor_state"); err != nil {
		return fmt.Errorf("failed to clear editor state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM open_tabs"); err != nil {
		return fmt.Errorf("failed to clear open tabs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}
