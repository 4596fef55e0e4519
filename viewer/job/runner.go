package job

import (
	"context"
	"fmt"
	"sync"

	"csgview/hal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const tracerName = "csgview/viewer/job"

// Owner marshals functions onto the owner thread in FIFO order.
// kernel.Kernel implements it.
type Owner interface {
	Post(fn func()) bool
}

// StatusSink consumes progress reports on the owner thread.
type StatusSink interface {
	SetProgress(percent int, text string)
}

// Runner starts jobs and owns the "current job" slot.
//
// Start, Current and InFlight are owner-thread only. Each Start bumps a
// generation counter; a job whose generation no longer matches when its posts
// arrive has been superseded, and its progress, install and done hooks are
// skipped. Superseded workers are not interrupted.
type Runner struct {
	owner Owner
	sink  StatusSink
	log   hal.Logger

	sem    *semaphore.Weighted
	tracer trace.Tracer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	gen     uint64
	current Handle
	closed  bool
	onFinal func(Handle, bool)
	nfinal  uint64
}

// NewRunner returns a runner that executes at most maxWorkers job bodies at
// once (minimum 1). sink and log may be nil.
func NewRunner(owner Owner, sink StatusSink, log hal.Logger, maxWorkers int) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		owner:  owner,
		sink:   sink,
		log:    log,
		sem:    semaphore.NewWeighted(int64(maxWorkers)),
		tracer: otel.Tracer(tracerName),
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnFinalized registers an observer called on the owner thread each time a job
// reaches StateFinalized, with whether it was still current.
func (r *Runner) OnFinalized(fn func(h Handle, current bool)) { r.onFinal = fn }

// SetTracerProvider replaces the global provider used for job spans.
// Call it before the first Start.
func (r *Runner) SetTracerProvider(tp trace.TracerProvider) {
	r.tracer = tp.Tracer(tracerName)
}

// Start makes h the current job and launches its body on a worker goroutine.
// Any previously current job keeps running but is no longer tracked.
func (r *Runner) Start(h Handle) error {
	if r.closed {
		return ErrClosed
	}
	if h.State() != StateCreated {
		return ErrStarted
	}
	if prev := r.current; prev != nil && prev.State() != StateFinalized {
		r.logf("job: %s superseded by %s", describe(prev), describe(h))
	}
	r.gen++
	r.current = h
	r.logf("job: %s started gen=%d", describe(h), r.gen)
	h.start(r, r.gen)
	return nil
}

// Current returns the most recently started job, finalized or not.
func (r *Runner) Current() Handle { return r.current }

// InFlight reports whether the current job has not been finalized yet.
func (r *Runner) InFlight() bool {
	return r.current != nil && r.current.State() != StateFinalized
}

// Generation returns the generation of the current job.
func (r *Runner) Generation() uint64 { return r.gen }

// Finalized returns how many jobs (current or superseded) have finalized.
func (r *Runner) Finalized() uint64 { return r.nfinal }

// Close cancels the context handed to job bodies and rejects further Starts.
// Running bodies are not waited for; use Wait for that.
func (r *Runner) Close() {
	r.closed = true
	r.cancel()
}

// Wait blocks until every worker goroutine has returned and posted its
// completion. It must not be called on the owner thread while the owner is
// needed to drain posts (posting never blocks, so this is safe).
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) isCurrent(h Handle) bool {
	return r.current == h && h.Generation() == r.gen
}

func (r *Runner) publish(st Status) {
	if r.sink == nil {
		return
	}
	r.sink.SetProgress(st.Percent, st.Text)
}

func (r *Runner) finalized(h Handle, current bool) {
	r.nfinal++
	if r.onFinal != nil {
		r.onFinal(h, current)
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.log == nil {
		return
	}
	r.log.WriteLineString(fmt.Sprintf(format, args...))
}

func describe(h Handle) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return h.Name()
}
