package job

import (
	"errors"
	"fmt"
)

var (
	ErrStarted = errors.New("job: already started")
	ErrClosed  = errors.New("job: runner closed")
	ErrNoWork  = errors.New("job: no work function")
)

// PanicError wraps a value recovered from a panicking job body.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}
