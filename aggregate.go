package upromise

// All returns a promise that fulfills with the values of every promise in
// promises, in argument order, once all of them have fulfilled. If any of
// them rejects, the returned promise rejects with that reason (the first
// rejection to be delivered wins; later settlements are ignored by the
// usual single-transition rule). All of no promises fulfills immediately
// with an empty slice.
func All(d *Dispatcher, promises ...*Promise) *Promise {
	return NewPromise(d, func(p *Promise) {
		values := make([]any, len(promises))
		remaining := len(promises)
		if remaining == 0 {
			p.Resolve(values)
			return
		}
		for i, q := range promises {
			i := i
			q.Then(
				func(v any) (any, error) {
					values[i] = v
					remaining--
					if remaining == 0 {
						p.Resolve(values)
					}
					return nil, nil
				},
				func(e error) (any, error) {
					p.Reject(e)
					return nil, nil
				},
			)
		}
	})
}

// Race returns a promise that settles the way the first of promises to
// settle does, whether fulfilled or rejected. Race of no promises stays
// pending forever.
func Race(d *Dispatcher, promises ...*Promise) *Promise {
	return NewPromise(d, func(p *Promise) {
		for _, q := range promises {
			q.Then(
				func(v any) (any, error) {
					p.Resolve(v)
					return nil, nil
				},
				func(e error) (any, error) {
					p.Reject(e)
					return nil, nil
				},
			)
		}
	})
}

// Settlement is one promise's outcome as reported by AllSettled: State is
// Fulfilled or Rejected, with the matching Value or Err populated.
type Settlement struct {
	State State
	Value any
	Err   error
}

// AllSettled returns a promise that fulfills with a Settlement per input
// promise, in argument order, once every one of them has settled. It never
// rejects.
func AllSettled(d *Dispatcher, promises ...*Promise) *Promise {
	return NewPromise(d, func(p *Promise) {
		outcomes := make([]Settlement, len(promises))
		remaining := len(promises)
		if remaining == 0 {
			p.Resolve(outcomes)
			return
		}
		record := func(i int, s Settlement) {
			outcomes[i] = s
			remaining--
			if remaining == 0 {
				p.Resolve(outcomes)
			}
		}
		for i, q := range promises {
			i := i
			q.Then(
				func(v any) (any, error) {
					record(i, Settlement{State: Fulfilled, Value: v})
					return nil, nil
				},
				func(e error) (any, error) {
					record(i, Settlement{State: Rejected, Err: e})
					return nil, nil
				},
			)
		}
	})
}

// NextTick returns a promise that fulfills with nil once the dispatcher
// has drained every task queued ahead of it — a one-turn delay built
// entirely on the task queue, with no wall-clock timer involved. Hosts
// that need real timed delays settle a Deferred from their own timer
// plumbing instead.
func NextTick(d *Dispatcher) *Promise {
	p := &Promise{dispatcher: d, state: Pending, waiters: newTaskQueue()}
	co := d.sched.Spawn(func() {
		p.Resolve(nil)
	})
	d.queue.pushTail(task{co: co})
	return p
}
