package intel

import "errors"

// ErrEmptyInput indicates the analysis was invoked with no code or prompt.
var ErrEmptyInput = errors.New("empty analysis input")
