package upromise

import "github.com/loopkit/upromise/upromisecoro"

// AsyncContext is handed to an async function body, binding it to the
// coroutine and result promise that Async created for it. It is the
// handle passed to Await.
type AsyncContext struct {
	dispatcher *Dispatcher
	promise    *Promise
	co         upromisecoro.CoID
}

// Promise returns the promise that will settle with the async body's
// eventual result.
func (ctx *AsyncContext) Promise() *Promise {
	return ctx.promise
}

// Async starts body as a coroutine bound to a fresh result promise,
// which is returned immediately. body runs to completion (suspending at
// any Await calls along the way) and then resolves or rejects the
// returned promise with its result.
//
// The coroutine is not resumed immediately: it is scheduled via
// runImmediately, which — when Async is called from within another
// running coroutine — runs the new body before the caller's next
// statement, then returns control to the caller. Called from outside any
// coroutine (e.g. top-level host code), the body simply runs on the next
// dispatcher tick.
func Async(d *Dispatcher, body func(ctx *AsyncContext) (any, error)) *Promise {
	p := &Promise{dispatcher: d, state: Pending, waiters: newTaskQueue()}
	ctx := &AsyncContext{dispatcher: d, promise: p}

	ctx.co = d.sched.Spawn(func() {
		ret, err := body(ctx)
		if err != nil {
			p.Reject(err)
		} else {
			p.Resolve(ret)
		}
	})

	d.runImmediately(ctx.co)
	return p
}

// Await suspends the calling async coroutine until q settles, then
// returns its fulfillment value or rejection reason. It registers a
// hidden two-sided Then on q whose callbacks record the outcome and
// reschedule ctx's coroutine, then suspends.
func Await(ctx *AsyncContext, q *Promise) (any, error) {
	var value any
	var reason error

	q.Then(
		func(v any) (any, error) {
			value = v
			ctx.dispatcher.queue.pushHead(task{co: ctx.co})
			return nil, nil
		},
		func(e error) (any, error) {
			reason = e
			ctx.dispatcher.queue.pushHead(task{co: ctx.co})
			return nil, nil
		},
	)

	upromisecoro.Suspend()
	return value, reason
}
