package upromise

import (
	"log/slog"

	"github.com/loopkit/upromise/upromisecoro"
)

// Dispatcher owns a coroutine scheduler and a task queue, and is the sole
// driver of both: every component that wishes to run code later enqueues
// a task onto the dispatcher rather than calling into another
// coroutine's stack directly.
type Dispatcher struct {
	sched  *upromisecoro.Scheduler
	queue  *taskQueue
	logger *slog.Logger
}

// NewDispatcher opens a fresh dispatcher: a coroutine scheduler plus an
// empty task queue.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sched:  upromisecoro.NewScheduler(),
		queue:  newTaskQueue(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt.configureDispatcher(d)
	}
	return d
}

// Close releases the dispatcher's coroutine scheduler. Any coroutines
// still suspended (e.g. generators that were never driven to completion)
// are stopped.
func (d *Dispatcher) Close() {
	d.sched.Close()
}

// Run drains the task queue: while popHead returns a task, the named
// coroutine is resumed and the task is discarded. Run returns once the
// queue is empty — this is the "drain to idle" operation a host event
// loop calls between external events.
func (d *Dispatcher) Run() {
	for {
		t, ok := d.queue.popHead()
		if !ok {
			return
		}
		d.logger.Debug("upromise: resuming task", "co", t.co)
		d.sched.Resume(t.co)
	}
}

// Idle reports whether the task queue is currently empty.
func (d *Dispatcher) Idle() bool {
	return d.queue.empty()
}

// runImmediately enqueues task so that it runs before anything already
// waiting at the tail of the queue. If the caller is currently inside a
// running coroutine, that coroutine's own continuation is pushed to the
// head first, then task is pushed to the head (so task runs next), and
// the caller is suspended — giving the callee a chance to start running
// before the caller's next statement executes. If called from outside
// any coroutine (e.g. from host code), task is
// simply scheduled at the head and runs on the next dispatcher tick.
func (d *Dispatcher) runImmediately(co upromisecoro.CoID) {
	cur := d.sched.Running()
	if cur != 0 {
		d.queue.pushHead(task{co: cur})
		d.queue.pushHead(task{co: co})
		upromisecoro.Suspend()
		return
	}
	d.queue.pushHead(task{co: co})
}

// pump resumes co and guarantees it has run to its next suspension or
// return by the time pump itself returns, unlike runImmediately (which,
// called from outside any coroutine, only schedules co for the next
// dispatcher tick). Used by Generator, whose Next/Return/Throw are a
// synchronous pull (§4.5) rather than Async's run-on-next-tick
// scheduling: called from inside a running coroutine, it defers to
// runImmediately exactly as before (the surrounding Run loop drives co
// before resuming the caller); called from outside any coroutine, it
// resumes co directly instead of merely enqueuing it, since nothing else
// is draining the queue at that point to pick it up.
func (d *Dispatcher) pump(co upromisecoro.CoID) {
	if d.sched.Running() != 0 {
		d.runImmediately(co)
		return
	}
	d.logger.Debug("upromise: resuming task", "co", co)
	d.sched.Resume(co)
}
