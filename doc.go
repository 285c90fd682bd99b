// Package upromise implements a Promises/A+ compliant promise runtime and
// the coroutine-driven concurrency primitives built on top of it:
// async/await, a synchronous generator, and an async-generator. All of it
// runs on a single cooperatively scheduled event loop backed by stackful
// coroutines (github.com/dispatchrun/coroutine).
//
// The event loop never runs two coroutines concurrently: a [Dispatcher]
// drains a FIFO task queue, resuming one coroutine at a time, until the
// queue is empty. Then callbacks, async bodies, generators and
// async-generators each run in their own coroutine and cooperate by
// enqueuing tasks onto the dispatcher rather than calling into each
// other's stacks directly.
package upromise
