// Package canvas is the viewer task: it feeds live pointer input to the
// dispatcher, handles hot keys and repaints the scene every step.
package canvas

import (
	"fmt"
	"time"

	"csgview/hal"
	"csgview/viewer/input"
	"csgview/viewer/kernel"
	"csgview/viewer/quarkgl"
	"csgview/viewer/services/status"
)

// NoContextMessage is shown when there is no framebuffer to draw into.
const NoContextMessage = "Could not create rendering context."

const (
	maxEventsPerStep = 64

	ticksPerSecond = uint64(time.Second / hal.TickDuration)
)

// HotKeys are the actions bound to keys.
type HotKeys interface {
	ToggleRecording()
	OpenModel()
	Quit()
}

type Config struct {
	Display    hal.Display
	Input      hal.Input
	Logger     hal.Logger
	Live       input.Listener // usually the dispatcher
	Controller *Controller
	Status     *status.Bar
	Keys       HotKeys
}

type Task struct {
	cfg Config
	r   *quarkgl.Renderer

	fb  hal.Framebuffer
	ptr <-chan hal.PointerEvent
	kbd <-chan hal.KeyEvent

	started bool
	inert   bool
	frames  uint64

	// Frame rate window, in kernel ticks.
	rateTick   uint64
	rateFrames uint64
	fps        int
}

var _ kernel.Task = (*Task)(nil)

func New(cfg Config) *Task {
	return &Task{cfg: cfg, r: quarkgl.NewRenderer()}
}

// Inert reports whether the task gave up for lack of a rendering context.
func (t *Task) Inert() bool { return t.inert }

// FPS returns the frame rate measured over the last full second of ticks.
func (t *Task) FPS() int { return t.fps }

// Frames returns how many frames were presented.
func (t *Task) Frames() uint64 { return t.frames }

func (t *Task) Renderer() *quarkgl.Renderer { return t.r }

func (t *Task) Step(ctx *kernel.Context) {
	if !t.started {
		t.started = true
		if !t.init() {
			t.inert = true
			t.alert(NoContextMessage)
			ctx.Exit()
			return
		}
	}
	t.pumpKeys()
	t.pumpPointer()
	t.repaint()
	t.sampleRate(ctx.NowTick())
}

// sampleRate updates the frame rate once a second of ticks has passed. Tick 0
// means no time source is feeding the kernel.
func (t *Task) sampleRate(now uint64) {
	if now == 0 {
		return
	}
	if t.rateTick == 0 {
		t.rateTick, t.rateFrames = now, t.frames
		return
	}
	elapsed := now - t.rateTick
	if elapsed < ticksPerSecond {
		return
	}
	t.fps = int((t.frames - t.rateFrames) * ticksPerSecond / elapsed)
	t.rateTick, t.rateFrames = now, t.frames
	if t.cfg.Status != nil {
		t.cfg.Status.SetFPS(t.fps)
	}
}

func (t *Task) init() bool {
	if in := t.cfg.Input; in != nil {
		if k := in.Keyboard(); k != nil {
			t.kbd = k.Events()
		}
		if p := in.Pointer(); p != nil {
			t.ptr = p.Events()
		}
	}
	if t.cfg.Display == nil {
		return false
	}
	t.fb = t.cfg.Display.Framebuffer()
	return t.fb != nil && t.fb.Format() == hal.PixelFormatRGB565 && t.fb.Width() > 0 && t.fb.Height() > 0
}

func (t *Task) alert(msg string) {
	if t.cfg.Logger != nil {
		t.cfg.Logger.WriteLineString(fmt.Sprintf("canvas: alert: %s", msg))
	}
	if t.cfg.Status != nil {
		t.cfg.Status.SetStatusText(msg)
	}
}

func (t *Task) pumpKeys() {
	for i := 0; i < maxEventsPerStep; i++ {
		select {
		case ev := <-t.kbd:
			if ev.Press {
				t.handleKey(ev.Code)
			}
		default:
			return
		}
	}
}

func (t *Task) handleKey(code hal.KeyCode) {
	switch code {
	case hal.KeyF3:
		if t.r.Mode == quarkgl.RenderWireframe {
			t.r.Mode = quarkgl.RenderSolidFlat
		} else {
			t.r.Mode = quarkgl.RenderWireframe
		}
	case hal.KeyF1:
		if t.cfg.Keys != nil {
			t.cfg.Keys.ToggleRecording()
		}
	case hal.KeyF2:
		if t.cfg.Keys != nil {
			t.cfg.Keys.OpenModel()
		}
	case hal.KeyEscape:
		if t.cfg.Keys != nil {
			t.cfg.Keys.Quit()
		}
	}
}

func (t *Task) pumpPointer() {
	live := t.cfg.Live
	if live == nil {
		return
	}
	for i := 0; i < maxEventsPerStep; i++ {
		select {
		case ev := <-t.ptr:
			forward(live, ev)
		default:
			return
		}
	}
}

// forward maps a polled host pointer event onto the listener interface.
func forward(l input.Listener, ev hal.PointerEvent) {
	switch ev.Action {
	case hal.PointerMove:
		l.MoveTo(int64(ev.X), int64(ev.Y))
	case hal.PointerDown:
		if ev.Button == hal.ButtonSecondary {
			l.PointerDownSecondary()
		} else {
			l.PointerDownPrimary()
		}
	case hal.PointerUp:
		if ev.Button == hal.ButtonSecondary {
			l.PointerUpSecondary()
		} else {
			l.PointerUpPrimary()
		}
	case hal.PointerDoubleClick:
		l.DoubleClick()
	case hal.PointerWheel:
		axis := input.WheelVertical
		if ev.Horizontal {
			axis = input.WheelHorizontal
		}
		l.Scroll(int64(ev.Wheel), int64(ev.WheelDelta), axis)
	}
}

func (t *Task) repaint() {
	target := &quarkgl.RGB565Target{
		Buf:    t.fb.Buffer(),
		Stride: t.fb.StrideBytes(),
		W:      t.fb.Width(),
		H:      t.fb.Height(),
	}
	if t.cfg.Status != nil {
		target.H -= t.cfg.Status.Height()
	}
	if t.cfg.Controller != nil {
		t.r.Render(target, t.cfg.Controller.Scene())
	}
	if t.cfg.Status != nil {
		t.cfg.Status.Draw(t.fb)
	}
	_ = t.fb.Present()
	t.frames++
}
