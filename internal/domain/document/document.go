package document

import (
	"context"
	"errors"
)

var (
	// ErrNotOpen indicates the referenced document is not in the set.
	ErrNotOpen = errors.New("document not open")
)

// FileStore fetches file content when a document is first opened.
type FileStore interface {
	ReadFile(ctx context.Context, projectID, path string) (string, error)
}

// Document is an opened file's in-memory editable representation. Its
// identity is its path.
type Document struct {
	Path    string
	Name    string
	Content string
	Dirty   bool
}

// Info is the read-only projection of a document used by the view layer.
type Info struct {
	Path  string
	Name  string
	Dirty bool
}
