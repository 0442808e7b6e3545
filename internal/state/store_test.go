package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestLoadWithoutSave(t *testing.T) {
	store := NewStore(NewTestDB(t))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoState)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(NewTestDB(t))
	ctx := context.Background()

	saved := Snapshot{
		ProjectID:  "p1",
		OpenPaths:  []string{"src/Main.java", "src/Util.java"},
		ActivePath: "src/Util.java",
		SavedAt:    time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved.ProjectID, loaded.ProjectID)
	require.Equal(t, saved.OpenPaths, loaded.OpenPaths)
	require.Equal(t, saved.ActivePath, loaded.ActivePath)
	require.True(t, saved.SavedAt.Equal(loaded.SavedAt))
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store := NewStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Snapshot{
		ProjectID: "p1",
		OpenPaths: []string{"src/A.java", "src/B.java"},
		SavedAt:   time.Now().UTC(),
	}))
	require.NoError(t, store.Save(ctx, Snapshot{
		ProjectID:  "p2",
		OpenPaths:  []string{"src/C.java"},
		ActivePath: "src/C.java",
		SavedAt:    time.Now().UTC(),
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "p2", loaded.ProjectID)
	require.Equal(t, []string{"src/C.java"}, loaded.OpenPaths)
}

func TestClear(t *testing.T) {
	store := NewStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Snapshot{
		ProjectID: "p1",
		OpenPaths: []string{"src/Main.java"},
		SavedAt:   time.Now().UTC(),
	}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoState)
}
