package hal

import "time"

// TickDuration is the length of one host tick.
const TickDuration = time.Millisecond

type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// advance converts wall-clock time since the previous call into ticks.
func (t *hostTime) advance() {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.emit(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	ticks := uint64(t.acc / TickDuration)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % TickDuration
	t.emit(ticks)
}

// emit publishes only the newest sequence number; consumers use TickTo semantics.
func (t *hostTime) emit(n uint64) {
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}
