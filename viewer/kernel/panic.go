package kernel

import (
	"runtime/debug"
	"sync/atomic"
)

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var (
	panicCount atomic.Uint64

	panicHandler atomic.Value // func(PanicInfo)
)

// Panics returns how many task or posted-work panics have been recovered.
func Panics() uint64 {
	return panicCount.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler runs on the owner thread for every recovered panic. The panicking
// task is removed from the schedule; the kernel keeps running. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func triggerPanic(info PanicInfo) {
	panicCount.Add(1)
	info.Stack = debug.Stack()
	if v := panicHandler.Load(); v != nil {
		if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
			fn(info)
		}
	}
}
