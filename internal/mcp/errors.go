package mcp

import (
	"errors"
	"fmt"

	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/document"
	"github.com/autofixer/workbench/internal/domain/intel"
	"github.com/autofixer/workbench/internal/domain/workspace"
	"github.com/autofixer/workbench/internal/remote"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Order matters: the most
// specific sentinels are checked first, since remote errors can satisfy both
// NotFound and Rejected.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, catalog.ErrInvalidInput), errors.Is(err, workspace.ErrInvalidInput),
		errors.Is(err, intel.ErrEmptyInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the arguments"}
	case errors.Is(err, workspace.ErrNotOpen):
		return &APIError{Code: "NO_PROJECT_OPEN", Message: err.Error(), RecoveryHint: "Call open_project first"}
	case errors.Is(err, workspace.ErrNoActiveDocument):
		return &APIError{Code: "NO_ACTIVE_FILE", Message: err.Error(), RecoveryHint: "Call open_file first"}
	case errors.Is(err, workspace.ErrStaleState):
		return &APIError{Code: "STALE_STATE", Message: err.Error(), RecoveryHint: "Re-read editor_state and retry"}
	case errors.Is(err, workspace.ErrFileNotFound), errors.Is(err, document.ErrNotOpen),
		errors.Is(err, remote.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the path or id"}
	case errors.Is(err, remote.ErrUnavailable):
		return &APIError{Code: "BACKEND_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Verify the backend is running"}
	case errors.Is(err, remote.ErrRejected):
		return &APIError{Code: "REJECTED", Message: err.Error()}
	default:
		return nil
	}
}

// toolError wraps a domain error for transport, preferring a mapped code.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
