package kernel

import (
	"sync"
	"sync/atomic"
)

const maxTasks = 32

type TaskID uint8

// NoTask is reported in PanicInfo for work that did not run inside a task.
const NoTask TaskID = 0xFF

// Task is a cooperative unit of execution.
//
// Step runs on the owner thread and must return promptly: returning is the only
// yield point. Posted work and the host repaint run between two steps.
type Task interface {
	Step(*Context)
}

type taskState struct {
	task Task
	done bool
}

// Kernel is the owner-thread scheduler.
//
// Exactly one goroutine (the owner) calls Step. Any goroutine may call Post.
type Kernel struct {
	mu     sync.Mutex
	posted []func()
	closed bool

	tasks     [maxTasks]taskState
	taskCount TaskID

	tick  atomic.Uint64
	steps uint64
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{}
}

// AddTask registers a task and returns its ID.
//
// It returns NoTask when the task table is full.
func (k *Kernel) AddTask(t Task) TaskID {
	if t == nil || k.taskCount >= maxTasks {
		return NoTask
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t}
	return id
}

// Post queues fn to run on the owner thread during a later Step.
//
// Posted functions run in the order they were posted. Post never blocks and is
// safe to call from any goroutine. It reports false once the kernel is closed;
// the function is dropped in that case.
func (k *Kernel) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return false
	}
	k.posted = append(k.posted, fn)
	return true
}

// Pending returns the number of posted functions not yet run.
func (k *Kernel) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.posted)
}

// Close stops accepting posted work and discards anything still queued.
func (k *Kernel) Close() {
	k.mu.Lock()
	k.closed = true
	k.posted = nil
	k.mu.Unlock()
}

// Step runs one owner-thread turn: the posted queue as it stood on entry, then
// one Step of every live task in registration order.
//
// Work posted while the turn runs is left for the next turn.
func (k *Kernel) Step() {
	k.mu.Lock()
	batch := k.posted
	k.posted = nil
	k.mu.Unlock()

	for _, fn := range batch {
		k.runPosted(fn)
	}

	k.steps++
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.task == nil || st.done {
			continue
		}
		ctx := &Context{k: k, taskID: id}
		k.runTask(st, ctx)
		if ctx.exit {
			st.done = true
		}
	}
}

// Steps returns the number of completed Step calls.
func (k *Kernel) Steps() uint64 { return k.steps }

// TickTo advances the kernel tick to seq. Older values are ignored.
func (k *Kernel) TickTo(seq uint64) {
	for {
		cur := k.tick.Load()
		if seq <= cur {
			return
		}
		if k.tick.CompareAndSwap(cur, seq) {
			return
		}
	}
}

func (k *Kernel) nowTick() uint64 { return k.tick.Load() }

func (k *Kernel) runPosted(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{TaskID: NoTask, Value: r})
		}
	}()
	fn()
}

func (k *Kernel) runTask(st *taskState, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			st.done = true
			triggerPanic(PanicInfo{TaskID: ctx.taskID, Value: r})
		}
	}()
	st.task.Step(ctx)
}
