// Package job runs long operations on worker goroutines and hands their
// progress and results back to the owner thread.
//
// A Job moves Created → Running → Succeeded|Failed → Finalized. Only the owner
// thread changes state after Running; the worker writes the outcome once and
// then posts completion. Finalization runs exactly once per started job, and is
// the only place a job may touch shared state (through its install hook).
package job

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is a job lifecycle state. Transitions are monotonic.
type State uint32

const (
	StateCreated State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Status is a progress report: a percentage in [0,100] and a message.
type Status struct {
	Percent int
	Text    string
}

// Outcome is the terminal result of a job: a value or an error, never both.
type Outcome[T any] struct {
	Value T
	Err   error
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

// Work is a job body. It runs on a worker goroutine and may call report any
// number of times; each report reaches the owner thread in call order.
// A returned error or a panic becomes a failed Outcome.
type Work[T any] func(ctx context.Context, report func(percent int, text string)) (T, error)

// Option configures a Job.
type Option[T any] func(*Job[T])

// WithInstall sets the hook that applies a successful result to shared state.
// It runs on the owner thread, only on success, and only if the job was not
// superseded.
func WithInstall[T any](fn func(T)) Option[T] {
	return func(j *Job[T]) { j.install = fn }
}

// WithDone sets a hook that runs on the owner thread after finalization of a
// job that was not superseded, on both the success and failure branches.
func WithDone[T any](fn func(Outcome[T])) Option[T] {
	return func(j *Job[T]) { j.done = fn }
}

// WithFinalized sets a hook that runs on the owner thread once the job is
// finalized, whether or not it was superseded. current reports which. For a
// current job it runs after install and done.
func WithFinalized[T any](fn func(o Outcome[T], current bool)) Option[T] {
	return func(j *Job[T]) { j.finalized = fn }
}

// Handle is the type-erased view of a Job used by Runner.
type Handle interface {
	ID() uuid.UUID
	Name() string
	State() State
	Generation() uint64
	start(r *Runner, gen uint64)
}

// Job is one asynchronous unit of work producing a T.
type Job[T any] struct {
	id   uuid.UUID
	name string
	work Work[T]

	install   func(T)
	done      func(Outcome[T])
	finalized func(Outcome[T], bool)

	state atomic.Uint32
	gen   uint64

	// Owner thread only.
	status Status

	// Written by the worker before it posts completion; read on the owner
	// thread afterwards.
	outcome Outcome[T]
}

var _ Handle = (*Job[int])(nil)

// New creates a job in StateCreated.
func New[T any](name string, work Work[T], opts ...Option[T]) *Job[T] {
	j := &Job[T]{
		id:   uuid.New(),
		name: name,
		work: work,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Job[T]) ID() uuid.UUID { return j.id }

func (j *Job[T]) Name() string { return j.name }

func (j *Job[T]) State() State { return State(j.state.Load()) }

// Generation returns the runner generation captured at Start (0 before).
func (j *Job[T]) Generation() uint64 { return j.gen }

// Status returns the last progress report. Owner thread only.
func (j *Job[T]) Status() Status { return j.status }

// Outcome returns the job result. It is meaningful once the job is finalized;
// owner thread only.
func (j *Job[T]) Outcome() Outcome[T] { return j.outcome }

func (j *Job[T]) String() string {
	return fmt.Sprintf("%s[%s]", j.name, j.id.String()[:8])
}

func (j *Job[T]) start(r *Runner, gen uint64) {
	j.gen = gen
	j.state.Store(uint32(StateRunning))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		j.outcome = j.execute(r)
		if !r.owner.Post(func() { j.complete(r) }) {
			r.logf("job: %s completion dropped, owner closed", j)
		}
	}()
}

// execute runs on the worker goroutine inside a span covering the whole body,
// including the wait for a worker slot.
func (j *Job[T]) execute(r *Runner) (out Outcome[T]) {
	ctx, span := r.tracer.Start(r.ctx, "job "+j.name,
		trace.WithAttributes(
			attribute.String("job.id", j.id.String()),
			attribute.String("job.name", j.name),
			attribute.Int64("job.generation", int64(j.gen)),
		),
	)
	defer span.End()
	defer func() {
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
	}()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return Outcome[T]{Err: fmt.Errorf("acquire worker: %w", err)}
	}
	defer r.sem.Release(1)

	defer func() {
		if p := recover(); p != nil {
			out = Outcome[T]{Err: &PanicError{Value: p}}
		}
	}()

	report := func(percent int, text string) {
		st := Status{Percent: clampPercent(percent), Text: text}
		span.AddEvent("progress", trace.WithAttributes(
			attribute.Int("job.percent", st.Percent),
			attribute.String("job.text", st.Text),
		))
		r.owner.Post(func() { j.progress(r, st) })
	}
	if j.work == nil {
		return Outcome[T]{Err: ErrNoWork}
	}
	v, err := j.work(ctx, report)
	if err != nil {
		return Outcome[T]{Err: err}
	}
	return Outcome[T]{Value: v}
}

func (j *Job[T]) progress(r *Runner, st Status) {
	j.status = st
	if !r.isCurrent(j) {
		return
	}
	r.publish(st)
}

func (j *Job[T]) complete(r *Runner) {
	current := r.isCurrent(j)
	if err := j.outcome.Err; err != nil {
		j.state.Store(uint32(StateFailed))
		j.status = Status{Percent: 0, Text: err.Error()}
		r.logf("job: %s failed: %v", j, err)
		if current {
			r.publish(j.status)
		}
	} else {
		j.state.Store(uint32(StateSucceeded))
	}

	j.state.Store(uint32(StateFinalized))
	r.finalized(j, current)
	if !current {
		r.logf("job: %s superseded, completion discarded", j)
		if j.finalized != nil {
			j.finalized(j.outcome, false)
		}
		return
	}
	if j.outcome.Err == nil && j.install != nil {
		j.install(j.outcome.Value)
	}
	if j.done != nil {
		j.done(j.outcome)
	}
	if j.finalized != nil {
		j.finalized(j.outcome, true)
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
