package input

import (
	"errors"
	"fmt"

	"csgview/hal"
	"csgview/viewer/kernel"
)

// Mode is the dispatcher's record/replay state. At most one mode is active.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeRecording
	ModePlaying
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRecording:
		return "recording"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

var (
	ErrRecording = errors.New("input: recording in progress")
	ErrPlaying   = errors.New("input: playback in progress")
)

// Dispatcher is the single pointer dispatch path.
//
// Live input enters through the Listener methods the Dispatcher implements.
// While recording, each live action is appended to the log and still forwarded.
// While playing, live actions are dropped and the Dispatcher, stepped as a
// kernel task, forwards one logged event per Step.
//
// All methods must be called on the owner thread.
type Dispatcher struct {
	log       hal.Logger
	listeners []Listener

	mode   Mode
	events Log

	pos  int
	done func()

	played uint64
}

var (
	_ Listener    = (*Dispatcher)(nil)
	_ kernel.Task = (*Dispatcher)(nil)
)

// NewDispatcher returns an idle dispatcher. log may be nil.
func NewDispatcher(log hal.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// AddListener registers l. Listeners are notified in registration order.
func (d *Dispatcher) AddListener(l Listener) {
	if l == nil {
		return
	}
	d.listeners = append(d.listeners, l)
}

func (d *Dispatcher) Mode() Mode { return d.mode }

// Log returns a copy of the current log.
func (d *Dispatcher) Log() Log { return d.events.Clone() }

// Played returns how many logged events have been replayed since creation.
func (d *Dispatcher) Played() uint64 { return d.played }

// ArmRecording clears the log and starts recording.
func (d *Dispatcher) ArmRecording() error {
	if d.mode == ModePlaying {
		return ErrPlaying
	}
	d.events = d.events[:0]
	d.mode = ModeRecording
	d.logf("input: recording armed")
	return nil
}

// DisarmRecording stops recording and returns the frozen log.
// It is a no-op returning the current log when not recording.
func (d *Dispatcher) DisarmRecording() Log {
	if d.mode == ModeRecording {
		d.mode = ModeIdle
		d.logf("input: recording stopped events=%d", len(d.events))
	}
	return d.events.Clone()
}

// Load replaces the log, typically with one decoded from a session file.
func (d *Dispatcher) Load(l Log) error {
	switch d.mode {
	case ModeRecording:
		return ErrRecording
	case ModePlaying:
		return ErrPlaying
	}
	d.events = l.Clone()
	return nil
}

// Play starts replaying the log. Events are dispatched by Step, one per call;
// done (optional) runs on the owner thread after the last one.
func (d *Dispatcher) Play(done func()) error {
	switch d.mode {
	case ModeRecording:
		return ErrRecording
	case ModePlaying:
		return ErrPlaying
	}
	d.mode = ModePlaying
	d.pos = 0
	d.done = done
	d.logf("input: playback started events=%d", len(d.events))
	return nil
}

// Step dispatches the next logged event while playing.
//
// Returning to the kernel after each event is the playback yield: posted job
// updates and the repaint run before the next scripted action fires.
// Playback completes on the Step after the last event.
func (d *Dispatcher) Step(_ *kernel.Context) {
	if d.mode != ModePlaying {
		return
	}
	if d.pos >= len(d.events) {
		d.finishPlayback()
		return
	}
	ev := d.events[d.pos]
	d.pos++
	d.played++
	d.notify(ev, WheelVertical)
}

func (d *Dispatcher) finishPlayback() {
	d.mode = ModeIdle
	d.pos = 0
	done := d.done
	d.done = nil
	d.logf("input: playback finished")
	if done != nil {
		done()
	}
}

func (d *Dispatcher) live(ev Event, axis WheelAxis) {
	if d.mode == ModeRecording {
		d.events = append(d.events, ev)
	}
	if d.mode == ModePlaying {
		return
	}
	d.notify(ev, axis)
}

func (d *Dispatcher) notify(ev Event, axis WheelAxis) {
	if !ev.Kind.Valid() {
		d.logf("input: skipping unknown event kind %d", ev.Kind)
		return
	}
	for _, l := range d.listeners {
		Deliver(l, ev, axis)
	}
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.log == nil {
		return
	}
	d.log.WriteLineString(fmt.Sprintf(format, args...))
}

func (d *Dispatcher) PointerDownPrimary() {
	d.live(Event{Kind: KindPointerDownPrimary}, WheelVertical)
}

func (d *Dispatcher) PointerUpPrimary() {
	d.live(Event{Kind: KindPointerUpPrimary}, WheelVertical)
}

func (d *Dispatcher) PointerDownSecondary() {
	d.live(Event{Kind: KindPointerDownSecondary}, WheelVertical)
}

func (d *Dispatcher) PointerUpSecondary() {
	d.live(Event{Kind: KindPointerUpSecondary}, WheelVertical)
}

func (d *Dispatcher) DoubleClick() {
	d.live(Event{Kind: KindDoubleClick}, WheelVertical)
}

// Scroll records amount and delta; the axis is forwarded live but not logged,
// so replayed scrolls always use the vertical wheel.
func (d *Dispatcher) Scroll(amount, delta int64, axis WheelAxis) {
	d.live(Event{Kind: KindScroll, A: amount, B: delta}, axis)
}

func (d *Dispatcher) MoveTo(x, y int64) {
	d.live(Event{Kind: KindMove, A: x, B: y}, WheelVertical)
}
