package fold

import (
	"errors"
	"fmt"
)

// ErrCompletion indicates the completion client failed.
// The client's own error stays in the chain.
var ErrCompletion = errors.New("completion failed")

// Operations recorded in Error.Op.
const (
	OpPrompt   = "prompt"
	OpBudget   = "budget"
	OpComplete = "complete"
	OpAppend   = "append"
)

// Error reports which window and step of a run failed.
type Error struct {
	Window int    // Zero-based window index
	Op     string // One of the Op constants
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("window %d: %s: %v", e.Window, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
