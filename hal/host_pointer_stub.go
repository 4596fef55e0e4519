//go:build !cgo

package hal

type hostPointer struct {
	pointerQueue
}

func newHostPointer(log Logger) *hostPointer {
	return &hostPointer{pointerQueue: newPointerQueue(log)}
}

func (p *hostPointer) poll() {
	// No pointer support without the window backend.
}
