package hal

import "fmt"

const pointerQueueSize = 256

// pointerQueue buffers polled pointer events for the owner thread. Events that
// do not fit are counted and reported once per poll.
type pointerQueue struct {
	ch      chan PointerEvent
	log     Logger
	dropped uint64
	lost    uint64
}

func newPointerQueue(log Logger) pointerQueue {
	return pointerQueue{ch: make(chan PointerEvent, pointerQueueSize), log: log}
}

func (q *pointerQueue) Events() <-chan PointerEvent { return q.ch }

func (q *pointerQueue) emit(ev PointerEvent) {
	select {
	case q.ch <- ev:
	default:
		q.dropped++
	}
}

// flushDrops logs the events dropped since the previous call.
func (q *pointerQueue) flushDrops() {
	if q.dropped == 0 {
		return
	}
	q.lost += q.dropped
	if q.log != nil {
		q.log.WriteLineString(fmt.Sprintf("hal: pointer queue full, dropped %d events (total %d)", q.dropped, q.lost))
	}
	q.dropped = 0
}
