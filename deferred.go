package upromise

// Deferred bundles a pending promise with standalone Resolve/Reject
// functions, for callers who need to settle a promise from somewhere
// other than a NewPromise executor (e.g. after handing the promise to a
// caller, or from a callback registered with an unrelated API).
type Deferred struct {
	Promise *Promise
	Resolve func(v any)
	Reject  func(err error)
}

// NewDeferred creates a pending promise bound to d, along with functions
// that settle it. Calling Resolve or Reject more than once, or after the
// other has already been called, is a no-op (Promise.Resolve/Reject are
// themselves idempotent past the first transition).
func NewDeferred(d *Dispatcher) Deferred {
	p := &Promise{dispatcher: d, state: Pending, waiters: newTaskQueue()}
	return Deferred{
		Promise: p,
		Resolve: p.Resolve,
		Reject:  p.Reject,
	}
}
