package idoc

import (
	"fmt"
)

// FragmentParseError is returned when fragment blob cannot be decomposed.
// Index is the position of the fragment in the source sequence, or -1 when
// unknown.
type FragmentParseError struct {
	Index int
	Err   error
}

func (e *FragmentParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("unable to parse fragment: %v", e.Err)
	}
	return fmt.Sprintf("unable to parse fragment %d: %v", e.Index, e.Err)
}

func (e *FragmentParseError) Unwrap() error {
	return e.Err
}
