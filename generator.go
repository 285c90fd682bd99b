package upromise

import "github.com/loopkit/upromise/upromisecoro"

// Generator is a coroutine-driven synchronous pull iterator: a body
// produces values via Yield, and a driver pulls them via Next, with
// Return/Throw re-entry to unwind the body early.
type Generator struct {
	dispatcher *Dispatcher
	co         upromisecoro.CoID
	name       string

	done     bool
	needDone bool

	setData any
	data    any
	err     error
}

// GeneratorResult is the outcome of a single pull (Next, Return or
// Throw) against a Generator.
type GeneratorResult struct {
	Done  bool
	Value any
	Err   error
}

// GeneratorYield is returned to a generator body by Yield, carrying
// whatever the driver requested for the next resumption.
type GeneratorYield struct {
	// NeedDone asks the body to terminate at this yield point, as
	// requested by a prior Return or Throw call.
	NeedDone bool
	// Value is the value passed to the Next call that resumed this
	// yield point.
	Value any
}

// NewGenerator allocates a generator with a fresh coroutine running
// body, but does not start it: the coroutine only begins executing on
// the first call to Next.
func NewGenerator(d *Dispatcher, body func(g *Generator) (any, error), opts ...GeneratorOption) *Generator {
	g := &Generator{dispatcher: d}
	for _, opt := range opts {
		opt.configureGenerator(g)
	}
	g.co = d.sched.Spawn(func() {
		ret, err := body(g)
		g.done = true
		g.err = err
		if err == nil {
			g.data = ret
		}
	})
	return g
}

// Next resumes the generator body until its next Yield or return,
// passing v as the value the body's suspended Yield call resolves to
// (the value consumed by the *next* resumption — see Yield). Next is a
// synchronous pull: by the time it returns, the body has actually run to
// its next suspension or completion, whether or not Next itself was
// called from inside another coroutine — see (*Dispatcher).pump. The pull
// during which the body returns reports Done with the body's return value
// (or error); Value and Err are then cleared, so every later Next is a
// no-op returning Done with a nil Value and nil Err.
func (g *Generator) Next(v any) GeneratorResult {
	if g.done {
		return GeneratorResult{Done: true, Value: g.data, Err: g.err}
	}
	g.setData = v
	g.dispatcher.logger.Debug("upromise: generator.next", "name", g.name, "co", g.co)
	g.dispatcher.pump(g.co)
	res := GeneratorResult{Done: g.done, Value: g.data, Err: g.err}
	g.data = nil
	g.err = nil
	return res
}

// Return asks the generator to terminate at its next Yield point,
// resumes it once, and reports the terminal result with Value
// overwritten by v.
func (g *Generator) Return(v any) GeneratorResult {
	g.needDone = true
	res := g.Next(nil)
	res.Value = v
	return res
}

// Throw asks the generator to terminate at its next Yield point, resumes
// it once, and reports the terminal result with Err overwritten by err.
// The generator body itself decides, via GeneratorYield.NeedDone,
// whether and how to unwind; Throw does not itself inject err into the
// body — it only surfaces err to the caller of Throw over the normal
// driver-channel return value.
func (g *Generator) Throw(err error) GeneratorResult {
	g.needDone = true
	res := g.Next(nil)
	res.Err = err
	return res
}

// Yield suspends the generator body, publishing datum as the value
// produced by this pull, and returns once the driver resumes it: either
// because Next was called again (in which case Value carries whatever
// was passed to Next) or because Return/Throw requested early
// termination (NeedDone is set, and the body should return promptly).
func (g *Generator) Yield(datum any) GeneratorYield {
	g.data = datum
	upromisecoro.Suspend()
	res := GeneratorYield{NeedDone: g.needDone, Value: g.setData}
	g.needDone = false
	g.setData = nil
	return res
}
