package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the persistence service could not be reached.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrRejected indicates the server answered with success=false.
	ErrRejected = errors.New("remote store rejected request")
	// ErrNotFound indicates the server reported a missing project or file.
	ErrNotFound = errors.New("not found")
)

// ServerError carries the message the server attached to a success=false
// envelope.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request (http %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request: %s", e.Message)
}

func (e *ServerError) Is(target error) bool {
	if target == ErrRejected {
		return true
	}
	return target == ErrNotFound && e.Status == 404
}

// TransportError wraps a network-level failure so callers can distinguish it
// from a server rejection with errors.Is(err, ErrUnavailable).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote store unavailable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }
