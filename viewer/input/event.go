package input

import "fmt"

// Kind identifies a primitive pointer action. The numeric values are the
// session file kind codes and must not change.
type Kind uint8

const (
	KindPointerUpPrimary Kind = iota
	KindPointerUpSecondary
	KindPointerDownPrimary
	KindPointerDownSecondary
	KindDoubleClick
	KindScroll
	KindMove

	kindCount
)

func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	switch k {
	case KindPointerUpPrimary:
		return "pointer_up_primary"
	case KindPointerUpSecondary:
		return "pointer_up_secondary"
	case KindPointerDownPrimary:
		return "pointer_down_primary"
	case KindPointerDownSecondary:
		return "pointer_down_secondary"
	case KindDoubleClick:
		return "double_click"
	case KindScroll:
		return "scroll"
	case KindMove:
		return "move"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one recorded pointer action.
//
// A and B are the scroll amount and axis delta for KindScroll, the coordinates
// for KindMove, and zero for every other kind.
type Event struct {
	Kind Kind
	A, B int64
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d,%d)", e.Kind, e.A, e.B)
}

// Log is an ordered sequence of events. Replay order is always log order.
type Log []Event

// Clone returns a copy that shares no storage with l.
func (l Log) Clone() Log {
	if l == nil {
		return nil
	}
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// Equal reports whether both logs hold the same events in the same order.
func (l Log) Equal(o Log) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}
