package engine

import (
	"errors"
	"fmt"
)

// ErrSinkFailure marks a run aborted because a side effect could not be written.
var ErrSinkFailure = errors.New("sink failure")

// Sink names used in SinkError.
const (
	SinkStore   = "store"
	SinkRejects = "rejects"
)

// SinkError reports the message whose write failed and the last message whose
// side effect was committed (-1 if none).
type SinkError struct {
	Err       error
	Sink      string
	Index     int
	Committed int
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s write failed at message %d (last committed %d): %v",
		e.Sink, e.Index, e.Committed, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SinkError) Unwrap() []error {
	return []error{ErrSinkFailure, e.Err}
}
