package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrNoModel     = errors.New("no model applied")
	ErrNoTriangles = errors.New("mesh has no usable triangles")
	ErrNonFinite   = errors.New("non-finite coordinate")
	ErrBadIndex    = errors.New("vertex index out of range")
	ErrBadSetting  = errors.New("invalid setting")
	ErrTooLarge    = errors.New("mesh too large")
)

// ProcessingError reports the step at which Process stopped.
type ProcessingError struct {
	Step Step
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("Exception during processing: %s: %v", e.Step, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
