package upromise

import "fmt"

// State is the lifecycle stage of a Promise. A promise transitions at
// most once, from Pending to either Fulfilled or Rejected (or to the
// internal redirect state, which is always collapsed before it is
// observable through State()).
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected

	// redirect marks a promise that has adopted another (still pending)
	// promise's eventual state — see (*Promise).ResolveThenable. It is
	// never returned by State(): callers always see the collapsed,
	// user-facing state of the promise chain.
	redirect
)

var stateNames = [...]string{
	Pending:   "Pending",
	Fulfilled: "Fulfilled",
	Rejected:  "Rejected",
	redirect:  "Redirect",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Promise is a value placeholder that transitions at most once from
// Pending to Fulfilled or Rejected. Promises are created by NewPromise,
// Resolved, Rejected or Deferred, and are always bound to the Dispatcher
// that schedules their continuations.
type Promise struct {
	dispatcher *Dispatcher
	state      State
	value      any
	err        error
	redirectTo *Promise
	waiters    *taskQueue
}

// NewPromise creates a pending promise and invokes executor with it
// synchronously. executor is expected to call Resolve, Reject or
// ResolveThenable on p at some point, synchronously or asynchronously.
func NewPromise(d *Dispatcher, executor func(p *Promise)) *Promise {
	p := &Promise{dispatcher: d, state: Pending, waiters: newTaskQueue()}
	executor(p)
	return p
}

// Resolved returns an already-fulfilled promise carrying v. Like
// Resolve, it never runs the resolution algorithm: if v is itself a
// *Promise or a Thenable, it is used as-is, as the fulfillment value.
func Resolved(d *Dispatcher, v any) *Promise {
	return &Promise{dispatcher: d, state: Fulfilled, value: v, waiters: newTaskQueue()}
}

// Rejected returns an already-rejected promise carrying err.
func Rejected(d *Dispatcher, err error) *Promise {
	return &Promise{dispatcher: d, state: Rejected, err: err, waiters: newTaskQueue()}
}

// State reports the promise's current, fully-collapsed lifecycle stage.
func (p *Promise) State() State {
	w := effective(p)
	return w.state
}

// Dispatcher returns the dispatcher this promise is bound to.
func (p *Promise) Dispatcher() *Dispatcher {
	return p.dispatcher
}

// Value returns the fulfillment value of a Fulfilled promise, or nil for
// a promise in any other state.
func (p *Promise) Value() any {
	w := effective(p)
	if w.state != Fulfilled {
		return nil
	}
	return w.value
}

// Err returns the rejection reason of a Rejected promise, or nil for a
// promise in any other state.
func (p *Promise) Err() error {
	w := effective(p)
	if w.state != Rejected {
		return nil
	}
	return w.err
}

// effective collapses a chain of redirects down to the promise that
// actually carries (or will carry) the settled state. Invariant (§3.3):
// a redirect's target is never itself a redirect, so this loop runs at
// most once in steady state, but chases defensively in case a waiter's
// origin promise was redirected more than once before it got a chance
// to run.
func effective(p *Promise) *Promise {
	for p.state == redirect {
		p = p.redirectTo
	}
	return p
}

// Resolve fulfills p with v. If p is not Pending, this is a no-op. v is
// used as the fulfillment value directly — Resolve never runs the
// resolution algorithm; use ResolveThenable to adopt another promise's
// eventual state.
func (p *Promise) Resolve(v any) {
	if p.state != Pending {
		return
	}
	p.state = Fulfilled
	p.value = v
	p.dispatcher.logger.Debug("upromise: promise.resolve", "value", v)
	p.flush()
}

// Reject settles p as rejected with err. If p is not Pending, this is a
// no-op.
func (p *Promise) Reject(err error) {
	if p.state != Pending {
		return
	}
	p.state = Rejected
	p.err = err
	p.dispatcher.logger.Debug("upromise: promise.reject", "error", err)
	p.flush()
}

// flush splices every waiter in p.waiters onto the dispatcher queue, in
// registration order, preserving Promises/A+'s "callbacks fire in
// registration order" guarantee (§2.2.6).
func (p *Promise) flush() {
	p.waiters.drainInto(p.dispatcher.queue)
}

// ResolveThenable adopts the eventual state of q into p: the resolution
// algorithm for a promise-valued resolution (Promises/A+ §2.3.2). If p
// and q are the same promise, p is rejected with ErrRecurse (§2.3.1). If
// q (after collapsing any redirect chain) is itself pending, p becomes a
// forwarding alias for it; otherwise p immediately copies q's settled
// state.
func (p *Promise) ResolveThenable(q *Promise) {
	if p.state != Pending {
		return
	}
	if p == q {
		p.Reject(ErrRecurse)
		return
	}
	aim := effective(q)
	if aim == p {
		// q already redirects (possibly transitively) back to p:
		// installing the redirect would close the cycle and make p
		// unresolvable forever.
		p.Reject(ErrRecurse)
		return
	}
	if aim.state == Pending {
		p.state = redirect
		p.redirectTo = aim
		p.waiters.drainInto(aim.waiters)
		return
	}
	p.state = aim.state
	p.value = aim.value
	p.err = aim.err
	p.flush()
}

// Thenable is any value exposing the host "then(resolve, reject)"
// operation. A value returned from a Then callback that is not itself a
// *Promise but does satisfy Thenable is adopted into the promise system
// by wrapping it in a fresh promise whose executor invokes Then, then
// running ResolveThenable on that wrapper (§4.3).
type Thenable interface {
	Then(resolve func(any), reject func(error))
}

// adopt runs the resolution algorithm on ret, the value returned from a
// Then callback: identity is handled by ResolveThenable itself; a
// *Promise or Thenable result is adopted, anything else fulfills next
// directly.
func (next *Promise) adopt(ret any) {
	switch v := ret.(type) {
	case *Promise:
		next.ResolveThenable(v)
	case Thenable:
		wrapper := NewPromise(next.dispatcher, func(w *Promise) {
			runThenable(v, w)
		})
		next.ResolveThenable(wrapper)
	default:
		next.Resolve(ret)
	}
}

// runThenable invokes a host Thenable's Then operation, catching a panic
// from it the way Promises/A+ requires a throw during resolution to
// reject the promise (there being no host `throw` for the runtime to
// intercept other than Go's own panic/recover).
func runThenable(t Thenable, w *Promise) {
	defer func() {
		if r := recover(); r != nil {
			w.Reject(fmt.Errorf("upromise: thenable panicked: %v", r))
		}
	}()
	t.Then(w.Resolve, w.Reject)
}

// FulfillFunc is a Then fulfillment callback. Returning a *Promise or a
// Thenable adopts its eventual state into the downstream promise;
// returning a non-nil error rejects the downstream promise with it
// (taking priority over any returned value); otherwise the returned
// value fulfills the downstream promise.
type FulfillFunc func(value any) (any, error)

// RejectFunc is a Then rejection callback, with the same return
// semantics as FulfillFunc.
type RejectFunc func(reason error) (any, error)

// Then registers onFulfilled/onRejected to run once p settles, and
// returns a new promise that settles with their outcome. Either callback
// may be nil, in which case the corresponding settlement is forwarded
// unchanged to the returned promise (Promises/A+ forwarding, §8).
//
// The callback does not run on the caller's stack, even if p is already
// settled (Promises/A+ §2.2.4, "clean-stack"): Then always allocates a
// fresh coroutine for the callback and schedules a task to resume it,
// either onto p's waiters (if p is pending) or directly onto the
// dispatcher queue (if p is already settled).
func (p *Promise) Then(onFulfilled FulfillFunc, onRejected RejectFunc) *Promise {
	wait := effective(p)
	next := &Promise{dispatcher: p.dispatcher, state: Pending, waiters: newTaskQueue()}

	body := func() {
		w := effective(wait)
		state, value, err := w.state, w.value, w.err

		var ret any
		var cbErr error
		switch state {
		case Fulfilled:
			if onFulfilled != nil {
				ret, cbErr = onFulfilled(value)
			} else {
				ret = value
			}
		case Rejected:
			if onRejected != nil {
				ret, cbErr = onRejected(err)
			} else {
				cbErr = err
			}
		}

		if cbErr != nil {
			next.Reject(cbErr)
			return
		}
		next.adopt(ret)
	}

	co := p.dispatcher.sched.Spawn(body)
	t := task{co: co}
	if wait.state == Pending {
		wait.waiters.pushTail(t)
	} else {
		p.dispatcher.queue.pushTail(t)
	}
	return next
}
