//go:build cgo

package hal

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlop   = 4

	// wheelNotch matches the per-notch rotation most desktop toolkits report.
	wheelNotch = 120
)

type hostPointer struct {
	pointerQueue

	x, y    int
	seen    bool
	lastHit time.Time
	hitX    int
	hitY    int
}

func newHostPointer(log Logger) *hostPointer {
	return &hostPointer{pointerQueue: newPointerQueue(log)}
}

// poll translates this frame's ebiten mouse state into pointer events.
// Coordinates are in framebuffer pixels since Layout reports the framebuffer size.
// Moves are emitted first so button actions apply at the new position.
func (p *hostPointer) poll() {
	defer p.flushDrops()

	x, y := ebiten.CursorPosition()
	if !p.seen || x != p.x || y != p.y {
		p.seen = true
		p.x, p.y = x, y
		p.emit(PointerEvent{Action: PointerMove, X: x, Y: y})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.emit(PointerEvent{Action: PointerDown, Button: ButtonPrimary, X: x, Y: y})
		now := time.Now()
		if !p.lastHit.IsZero() && now.Sub(p.lastHit) <= doubleClickWindow &&
			absInt(x-p.hitX) <= doubleClickSlop && absInt(y-p.hitY) <= doubleClickSlop {
			p.emit(PointerEvent{Action: PointerDoubleClick, X: x, Y: y})
			p.lastHit = time.Time{}
		} else {
			p.lastHit, p.hitX, p.hitY = now, x, y
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		p.emit(PointerEvent{Action: PointerUp, Button: ButtonPrimary, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		p.emit(PointerEvent{Action: PointerDown, Button: ButtonSecondary, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		p.emit(PointerEvent{Action: PointerUp, Button: ButtonSecondary, X: x, Y: y})
	}

	wx, wy := ebiten.Wheel()
	if wy != 0 {
		p.emit(PointerEvent{Action: PointerWheel, Wheel: int(wy * wheelNotch), WheelDelta: wheelNotch})
	}
	if wx != 0 {
		p.emit(PointerEvent{Action: PointerWheel, Wheel: int(wx * wheelNotch), WheelDelta: wheelNotch, Horizontal: true})
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
