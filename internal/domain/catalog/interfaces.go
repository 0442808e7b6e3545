package catalog

import "context"

// Store provides the remote persistence calls the catalog depends on.
type Store interface {
	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, name string, template Template) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// OpenSession is the currently open workspace session, if any. Deleting the
// project it holds must tear it down.
type OpenSession interface {
	ProjectID() string
	Close()
}
