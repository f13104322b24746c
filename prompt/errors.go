package prompt

import "errors"

// Sentinel errors for prompt layouts.
var (
	// ErrEmpty is returned when the layout is empty.
	ErrEmpty = errors.New("layout is empty")

	// ErrParse is returned when the layout fails to parse.
	ErrParse = errors.New("layout parse error")

	// ErrExecute is returned when rendering the layout fails.
	ErrExecute = errors.New("layout execution error")

	// ErrVariable is returned when a layout leaves out a required part.
	ErrVariable = errors.New("required variable missing")
)
