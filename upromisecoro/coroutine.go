// Package upromisecoro wraps github.com/dispatchrun/coroutine behind the
// small scheduler capability the promise runtime treats as an external
// collaborator: open/close a scheduler, spawn/resume coroutines by
// identifier, suspend the running coroutine, and query which coroutine
// (if any) is currently running.
package upromisecoro

import "github.com/dispatchrun/coroutine"

// CoID identifies a coroutine registered with a Scheduler. The zero value
// never identifies a real coroutine; it is used as the "no coroutine"
// sentinel returned by [Scheduler.Running].
type CoID uint64

// signal is exchanged across the yield/resume boundary. The runtime never
// needs to carry data through the coroutine channel itself: promises,
// generators and async-generators all stash their data in ordinary Go
// fields and only use the coroutine for suspension, so a shared empty
// signal type is the correct (and minimal) instantiation of the generic
// coroutine.Coroutine[R, S].
type signal = struct{}

type instance = coroutine.Coroutine[signal, signal]

// Status reports whether a coroutine is currently executing, merely
// suspended, or has already returned (and so is no longer tracked).
type Status int

const (
	StatusDone Status = iota
	StatusSuspended
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusSuspended:
		return "Suspended"
	case StatusRunning:
		return "Running"
	default:
		return "Status(?)"
	}
}

// Scheduler owns a set of coroutine instances and tracks which one, if
// any, is currently running. A Scheduler is not safe for concurrent use —
// the runtime built on top of it never resumes a coroutine from more than
// one goroutine at a time.
type Scheduler struct {
	instances map[CoID]*instance
	nextID    CoID
	running   CoID
}

// NewScheduler opens a fresh coroutine scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{instances: map[CoID]*instance{}}
}

// Spawn registers a new coroutine wrapping fn and returns its identifier.
// The coroutine does not begin executing until it is first resumed.
func (s *Scheduler) Spawn(fn func()) CoID {
	co := coroutine.NewWithReturn[signal, signal](func() signal {
		fn()
		return signal{}
	})
	s.nextID++
	id := s.nextID
	if s.instances == nil {
		s.instances = map[CoID]*instance{}
	}
	s.instances[id] = &co
	return id
}

// Resume runs the coroutine identified by id until it next suspends (via
// Suspend) or returns. It reports whether the coroutine is still
// suspended (true) or has returned (false). Resuming an id that was never
// spawned, or has already returned, is a no-op reporting false.
func (s *Scheduler) Resume(id CoID) bool {
	co, ok := s.instances[id]
	if !ok {
		return false
	}
	prev := s.running
	s.running = id
	alive := co.Next()
	s.running = prev
	if !alive {
		delete(s.instances, id)
	}
	return alive
}

// Status reports the status of the coroutine identified by id.
func (s *Scheduler) Status(id CoID) Status {
	if id != 0 && id == s.running {
		return StatusRunning
	}
	if _, ok := s.instances[id]; ok {
		return StatusSuspended
	}
	return StatusDone
}

// Running returns the identifier of the coroutine currently executing on
// this scheduler, or the zero CoID if the scheduler is not currently
// resuming any coroutine (e.g. called from the dispatcher's own drain
// loop rather than from within a coroutine body).
func (s *Scheduler) Running() CoID {
	return s.running
}

// Suspend yields control back to whichever call to (*Scheduler).Resume is
// currently running the calling coroutine. It must only be called from
// within a coroutine body spawned by a Scheduler.
func Suspend() {
	coroutine.Yield[signal, signal](signal{})
}

// Close stops and releases every remaining coroutine instance.
func (s *Scheduler) Close() {
	for id, co := range s.instances {
		co.Stop()
		co.Next()
		delete(s.instances, id)
	}
}
