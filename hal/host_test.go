package hal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunHeadlessStopsOnQuit(t *testing.T) {
	steps := 0
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error {
			steps++
			if steps == 3 {
				return ErrQuit
			}
			return nil
		}
	}, HeadlessConfig{Width: 8, Height: 8, Hz: 1000})
	if err != nil {
		t.Fatalf("RunHeadless() = %v, want nil", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
}

func TestRunHeadlessTickLimitAndErrors(t *testing.T) {
	steps := 0
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error { steps++; return nil }
	}, HeadlessConfig{Hz: 1000, Ticks: 5})
	if err != nil || steps != 5 {
		t.Fatalf("RunHeadless() = %v steps=%d, want nil 5", err, steps)
	}

	boom := errors.New("boom")
	err = RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless() = %v, want %v", err, boom)
	}
}

func TestRunHeadlessCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := RunHeadless(ctx, func(h HAL) func() error { return nil }, HeadlessConfig{Hz: 100})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunHeadless() = %v, want DeadlineExceeded", err)
	}
}

func TestExpandRGBA(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(0xFF, 0, 0)
	dst := make([]byte, 2*4)
	fb.expandRGBA(dst)
	want := []byte{0xFF, 0, 0, 0xFF, 0xFF, 0, 0, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("expandRGBA() = %v, want %v", dst, want)
		}
	}
	if err := fb.Present(); err != nil || fb.presented() != 1 {
		t.Fatalf("Present() = %v presented=%d, want nil 1", err, fb.presented())
	}
}

func TestHostTimeMonotonic(t *testing.T) {
	ht := newHostTime()
	ht.advance()
	time.Sleep(3 * time.Millisecond)
	ht.advance()
	first := <-ht.Ticks()
	second := <-ht.Ticks()
	if first != 1 || second <= first {
		t.Fatalf("ticks = %d, %d; want 1 then larger", first, second)
	}
}

type lineSink struct{ lines []string }

func (l *lineSink) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineSink) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func TestPointerQueueLogsDrops(t *testing.T) {
	log := &lineSink{}
	q := newPointerQueue(log)
	for i := 0; i < pointerQueueSize+3; i++ {
		q.emit(PointerEvent{Action: PointerMove, X: i})
	}
	q.flushDrops()
	if len(log.lines) != 1 || log.lines[0] != "hal: pointer queue full, dropped 3 events (total 3)" {
		t.Fatalf("log = %q", log.lines)
	}

	q.flushDrops()
	if len(log.lines) != 1 {
		t.Fatalf("flush without drops logged %q", log.lines[1:])
	}
	q.emit(PointerEvent{Action: PointerMove})
	q.flushDrops()
	if len(log.lines) != 2 || log.lines[1] != "hal: pointer queue full, dropped 1 events (total 4)" {
		t.Fatalf("log = %q", log.lines)
	}
	if ev := <-q.Events(); ev.X != 0 {
		t.Fatalf("first queued event X = %d, want 0 (oldest kept)", ev.X)
	}
}
