package hal

import (
	"fmt"
	"os"
	"sync"
)

const (
	DefaultWidth  = 480
	DefaultHeight = 360
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime
}

// New returns a host HAL implementation with a width x height framebuffer.
func New(width, height int) HAL {
	return newHost(width, height)
}

func newHost(width, height int) *hostHAL {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	logger := &hostLogger{w: os.Stdout}
	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(width, height),
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(logger),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer {
	if d.fb == nil {
		return nil
	}
	return d.fb
}

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
