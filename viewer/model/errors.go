package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrEmpty             = errors.New("model has no triangles")
	errBadIndex          = errors.New("face index out of range")
	errShortFace         = errors.New("face needs at least 3 vertices")
	errBadVertex         = errors.New("vertex needs 3 coordinates")
)

// LoadError reports a model that could not be read or parsed.
type LoadError struct {
	Path string
	Line int // 0 when not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load model %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
