package workspace

import (
	"context"

	"github.com/autofixer/workbench/internal/domain/catalog"
)

// ProjectStore provides the remote persistence calls the session depends on.
type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*catalog.Project, error)
	CreateFile(ctx context.Context, projectID, name, path, content string) (*catalog.File, error)
	CreateFolder(ctx context.Context, projectID, name string) error
	RunProject(ctx context.Context, projectID string) (string, error)
}

// Saver receives content-mutation events and flushes them to the remote
// store. Schedule arms a debounced save bound to the given path; SaveNow
// cancels any pending timer and saves immediately; Reset discards pending
// work when the session it belonged to goes away.
type Saver interface {
	Schedule(projectID, path, content string)
	SaveNow(ctx context.Context, projectID, path, content string) error
	Reset()
}
