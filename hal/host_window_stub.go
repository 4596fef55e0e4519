//go:build !cgo

package hal

import "fmt"

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	TPS    int
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return fmt.Errorf("%w: window mode requires cgo (build/run with CGO_ENABLED=1)", ErrNoContext)
}
