package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	// ErrNoContext reports that the window/rendering context could not be created.
	ErrNoContext = errors.New("rendering context unavailable")

	// ErrQuit is returned by an app step function to end the host loop cleanly.
	ErrQuit = errors.New("quit")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerAction identifies a primitive pointer action.
type PointerAction uint8

const (
	PointerMove PointerAction = iota + 1
	PointerDown
	PointerUp
	PointerDoubleClick
	PointerWheel
)

// PointerButton identifies a pointer button.
type PointerButton uint8

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
)

// PointerEvent is one polled pointer action.
//
// X/Y carry the cursor position for PointerMove. For PointerWheel, Wheel is the
// rotation amount, WheelDelta the notch size and Horizontal the wheel axis.
type PointerEvent struct {
	Action     PointerAction
	Button     PointerButton
	X, Y       int
	Wheel      int
	WheelDelta int
	Horizontal bool
}

// Pointer provides pointer events in occurrence order.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the viewer and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
