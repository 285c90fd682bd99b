package upromise

import "github.com/loopkit/upromise/upromisecoro"

// AsyncGenerator is a coroutine-driven pull iterator whose body yields
// promises instead of plain values, and whose consumers receive settled
// results as promises. Concurrent Next/Return/Throw calls are serialized
// through a FIFO of pending requests, so callers observe settlements in
// call order even when the body's yielded promises resolve out of order.
type AsyncGenerator struct {
	dispatcher *Dispatcher
	co         upromisecoro.CoID
	name       string

	done      bool
	needDone  bool
	needThrow bool
	setData   any

	pending *agenQueue
}

// AsyncGenResult is the settled payload of a Next/Return/Throw promise.
type AsyncGenResult struct {
	Done  bool
	Value any
}

// AsyncGenYield is returned to an async-generator body by Yield.
type AsyncGenYield struct {
	// NeedDone asks the body to terminate at this yield point.
	NeedDone bool
	// NeedThrow asks the body to terminate at this yield point and
	// treat Value as the error driving the termination.
	NeedThrow bool
	// Value is the value passed to Next (or, when NeedThrow is set,
	// the error passed to Throw).
	Value any
}

// agenRequest is one outstanding Next/Return/Throw call: value is the
// caller-supplied payload (the argument to Next, or the override value
// for Return/Throw), and result is the promise that call returned.
type agenRequest struct {
	value  any
	result *Promise
}

// agenQueue is the FIFO of pending requests described in §4.6: one entry
// per outstanding call, serialized so the body's yields are matched to
// requests in call order.
type agenQueue struct {
	items []agenRequest
}

func (q *agenQueue) push(r agenRequest) { q.items = append(q.items, r) }

func (q *agenQueue) pop() (agenRequest, bool) {
	if len(q.items) == 0 {
		return agenRequest{}, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r, true
}

func (q *agenQueue) peekLast() (agenRequest, bool) {
	if len(q.items) == 0 {
		return agenRequest{}, false
	}
	return q.items[len(q.items)-1], true
}

// NewAsyncGenerator allocates an async-generator with a fresh coroutine
// running body, but does not start it: the coroutine only begins
// executing once the first Next/Return/Throw request schedules it.
func NewAsyncGenerator(d *Dispatcher, body func(a *AsyncGenerator) (any, error), opts ...AsyncGeneratorOption) *AsyncGenerator {
	a := &AsyncGenerator{dispatcher: d, pending: &agenQueue{}}
	for _, opt := range opts {
		opt.configureAsyncGenerator(a)
	}
	a.co = d.sched.Spawn(func() {
		ret, err := body(a)
		a.finish(ret, err)
	})
	return a
}

// finish marks the generator done and settles every remaining pending
// request: the first gets the body's actual return value (or error),
// every subsequent one gets {done: true, data: nil} — they arrived after
// the body had already committed to returning and so never got a yield
// of their own.
func (a *AsyncGenerator) finish(ret any, err error) {
	a.done = true
	for {
		req, ok := a.pending.pop()
		if !ok {
			return
		}
		if err != nil {
			req.result.Reject(err)
		} else {
			req.result.Resolve(AsyncGenResult{Done: true, Value: ret})
		}
		ret, err = nil, nil
	}
}

// schedule publishes the driver's request onto the generator's shared
// state and resumes its coroutine at head of the dispatcher queue — the
// body is suspended inside Yield (or hasn't started yet) and will next
// observe NeedDone/NeedThrow/Value there.
func (a *AsyncGenerator) schedule(value any, needDone, needThrow bool) {
	a.needDone = needDone
	a.needThrow = needThrow
	a.setData = value
	a.dispatcher.logger.Debug("upromise: asyncgen.schedule", "name", a.name, "co", a.co)
	a.dispatcher.queue.pushHead(task{co: a.co})
}

func (a *AsyncGenerator) nextImpl(value any, needDone, needThrow bool) *Promise {
	if a.done {
		return Resolved(a.dispatcher, AsyncGenResult{Done: true})
	}

	prevReq, hasPrev := a.pending.peekLast()

	next := NewPromise(a.dispatcher, func(np *Promise) {
		if !hasPrev {
			a.schedule(value, needDone, needThrow)
			return
		}
		// A prior request is still outstanding: wait for it to settle
		// before resuming the body for this one, so the body's yields
		// are serviced strictly in call order.
		prevReq.result.Then(
			func(v any) (any, error) {
				if !a.done {
					a.schedule(value, needDone, needThrow)
				}
				return nil, nil
			},
			func(e error) (any, error) {
				if !a.done {
					a.schedule(value, needDone, needThrow)
				}
				return nil, nil
			},
		)
	})

	a.pending.push(agenRequest{value: value, result: next})
	return next
}

// Next requests the next value from the generator, resuming its body
// (once any prior request has been serviced) and returning a promise for
// the result.
func (a *AsyncGenerator) Next(value any) *Promise {
	return a.nextImpl(value, false, false)
}

// Return asks the generator to terminate at its next yield point, as if
// by `return value` at that point, and returns a promise for the result.
func (a *AsyncGenerator) Return(value any) *Promise {
	return a.nextImpl(value, true, false)
}

// Throw asks the generator to terminate at its next yield point by
// raising err there, and returns a promise for the result.
func (a *AsyncGenerator) Throw(err error) *Promise {
	return a.nextImpl(err, false, true)
}

// Yield suspends the async-generator body until the promise q settles.
// If q fulfills, the oldest pending request is resolved with its value;
// the body stays suspended until a following Next/Return/Throw request
// resumes it, and the returned AsyncGenYield carries that request's
// flags and Value. If q rejects, the oldest
// pending request is rejected with the same reason and the body is
// immediately driven to resume (bypassing the usual call-order baton)
// so it can unwind without waiting for a subsequent request.
func (a *AsyncGenerator) Yield(q *Promise) AsyncGenYield {
	q.Then(
		func(v any) (any, error) {
			if req, ok := a.pending.pop(); ok {
				req.result.Resolve(AsyncGenResult{Done: false, Value: v})
			}
			return nil, nil
		},
		func(e error) (any, error) {
			if req, ok := a.pending.pop(); ok {
				req.result.Reject(e)
			}
			// A rejected yielded promise must unwind the body right
			// away rather than wait for the next Next/Return/Throw
			// call: there may be no such call coming, and the body
			// still needs a chance to run its own error handling.
			// NeedDone is set (not just NeedThrow) so a body that only
			// checks the generic unwind flag still terminates; NeedThrow
			// and Value are kept alongside so a body that wants the
			// rejection reason can still recover it.
			a.needDone = true
			a.needThrow = true
			a.setData = e
			a.dispatcher.queue.pushHead(task{co: a.co})
			return nil, nil
		},
	)

	upromisecoro.Suspend()
	res := AsyncGenYield{NeedDone: a.needDone, NeedThrow: a.needThrow, Value: a.setData}
	a.needDone = false
	a.needThrow = false
	a.setData = nil
	return res
}
