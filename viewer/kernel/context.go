package kernel

// Context provides task-local access to kernel operations during one Step.
type Context struct {
	k      *Kernel
	taskID TaskID
	exit   bool
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// NowTick returns the last observed tick value.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.nowTick()
}

// Post queues fn to run on the owner thread at the start of the next Step.
func (c *Context) Post(fn func()) bool {
	if c.k == nil {
		return false
	}
	return c.k.Post(fn)
}

// Exit removes the task from the schedule after the current Step returns.
func (c *Context) Exit() { c.exit = true }
