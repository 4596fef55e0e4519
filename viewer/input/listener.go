package input

// WheelAxis selects the wheel a scroll came from.
type WheelAxis uint8

const (
	WheelVertical WheelAxis = iota
	WheelHorizontal
)

// Listener receives pointer actions. Live and replayed actions arrive through
// the same methods, so a listener cannot tell them apart.
type Listener interface {
	PointerDownPrimary()
	PointerUpPrimary()
	PointerDownSecondary()
	PointerUpSecondary()
	DoubleClick()
	Scroll(amount, delta int64, axis WheelAxis)
	MoveTo(x, y int64)
}

// Deliver calls the listener method matching ev. It reports false for an
// unknown kind, in which case nothing is called.
func Deliver(l Listener, ev Event, axis WheelAxis) bool {
	switch ev.Kind {
	case KindPointerUpPrimary:
		l.PointerUpPrimary()
	case KindPointerUpSecondary:
		l.PointerUpSecondary()
	case KindPointerDownPrimary:
		l.PointerDownPrimary()
	case KindPointerDownSecondary:
		l.PointerDownSecondary()
	case KindDoubleClick:
		l.DoubleClick()
	case KindScroll:
		l.Scroll(ev.A, ev.B, axis)
	case KindMove:
		l.MoveTo(ev.A, ev.B)
	default:
		return false
	}
	return true
}
