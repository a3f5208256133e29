package sequence

import (
	"errors"
	"fmt"
)

// ErrInvalidSequence is returned when authored steps fail validation.
var ErrInvalidSequence = errors.New("sequence: invalid step sequence")

// ValidationError describes the first offending step.
type ValidationError struct {
	Index  int
	StepID string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidSequence, e.Reason)
	}
	return fmt.Sprintf("%v: step %d (%q): %s", ErrInvalidSequence, e.Index, e.StepID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSequence
}
