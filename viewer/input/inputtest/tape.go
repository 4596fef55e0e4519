// Package inputtest provides listener doubles for record/replay tests.
package inputtest

import "csgview/viewer/input"

// Tape is an input.Listener that appends every action it receives.
// Scroll axes are kept separately so the event tuples compare with logs.
type Tape struct {
	Events input.Log
	Axes   []input.WheelAxis
}

var _ input.Listener = (*Tape)(nil)

func (t *Tape) add(ev input.Event) { t.Events = append(t.Events, ev) }

func (t *Tape) PointerDownPrimary()   { t.add(input.Event{Kind: input.KindPointerDownPrimary}) }
func (t *Tape) PointerUpPrimary()     { t.add(input.Event{Kind: input.KindPointerUpPrimary}) }
func (t *Tape) PointerDownSecondary() { t.add(input.Event{Kind: input.KindPointerDownSecondary}) }
func (t *Tape) PointerUpSecondary()   { t.add(input.Event{Kind: input.KindPointerUpSecondary}) }
func (t *Tape) DoubleClick()          { t.add(input.Event{Kind: input.KindDoubleClick}) }

func (t *Tape) Scroll(amount, delta int64, axis input.WheelAxis) {
	t.add(input.Event{Kind: input.KindScroll, A: amount, B: delta})
	t.Axes = append(t.Axes, axis)
}

func (t *Tape) MoveTo(x, y int64) {
	t.add(input.Event{Kind: input.KindMove, A: x, B: y})
}

// Reset clears everything recorded so far.
func (t *Tape) Reset() {
	t.Events = nil
	t.Axes = nil
}
