package player

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Seek for an index outside the sequence.
var ErrOutOfRange = errors.New("player: seek index out of range")

// RangeError carries the rejected index and the sequence length.
type RangeError struct {
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %d not in [0, %d]", ErrOutOfRange, e.Index, e.Len-1)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
