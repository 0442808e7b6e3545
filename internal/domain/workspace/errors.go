package workspace

import "errors"

var (
	// ErrInvalidInput indicates invalid workspace input.
	ErrInvalidInput = errors.New("invalid workspace input")
	// ErrNotOpen indicates the operation requires an open session.
	ErrNotOpen = errors.New("no project open")
	// ErrFileNotFound indicates the path is not in the project tree.
	ErrFileNotFound = errors.New("file not found in project")
	// ErrStaleState indicates the session changed while a remote call was in
	// flight, so its result was discarded.
	ErrStaleState = errors.New("session changed during operation")
	// ErrNoActiveDocument indicates the operation needs an active document.
	ErrNoActiveDocument = errors.New("no active document")
)
