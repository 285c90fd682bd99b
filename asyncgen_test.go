package upromise_test

import (
	"errors"
	"testing"

	"github.com/loopkit/upromise"
	"github.com/loopkit/upromise/upromisetest"
)

func TestAsyncGeneratorYieldsFulfilledValues(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	src1 := upromise.NewDeferred(d)
	src2 := upromise.NewDeferred(d)

	ag := upromise.NewAsyncGenerator(d, func(ag *upromise.AsyncGenerator) (any, error) {
		y := ag.Yield(src1.Promise)
		if y.NeedDone {
			return nil, nil
		}
		y = ag.Yield(src2.Promise)
		if y.NeedDone {
			return nil, nil
		}
		return "finished", nil
	})

	p1 := ag.Next(nil)
	d.Run()
	src1.Resolve("one")
	r1 := upromisetest.MustFulfill(t, d, p1).(upromise.AsyncGenResult)
	if r1.Done || r1.Value != "one" {
		t.Errorf("got %+v, want {false one}", r1)
	}

	p2 := ag.Next(nil)
	d.Run()
	src2.Resolve("two")
	r2 := upromisetest.MustFulfill(t, d, p2).(upromise.AsyncGenResult)
	if r2.Done || r2.Value != "two" {
		t.Errorf("got %+v, want {false two}", r2)
	}

	p3 := ag.Next(nil)
	r3 := upromisetest.MustFulfill(t, d, p3).(upromise.AsyncGenResult)
	if !r3.Done || r3.Value != "finished" {
		t.Errorf("got %+v, want {true finished}", r3)
	}
}

func TestAsyncGeneratorRequestsSettleInCallOrder(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	src1 := upromise.NewDeferred(d)
	src2 := upromise.NewDeferred(d)

	ag := upromise.NewAsyncGenerator(d, func(ag *upromise.AsyncGenerator) (any, error) {
		ag.Yield(src1.Promise)
		ag.Yield(src2.Promise)
		return "done", nil
	})

	// Issue both requests before either source settles: the second
	// request's body resumption must still wait for the first to be
	// serviced, in call order, regardless of which source resolves first.
	p1 := ag.Next(nil)
	p2 := ag.Next(nil)
	d.Run()

	src2.Resolve("second-source")
	d.Run()
	upromisetest.AssertPending(t, p1)

	src1.Resolve("first-source")

	r1 := upromisetest.MustFulfill(t, d, p1).(upromise.AsyncGenResult)
	if r1.Value != "first-source" {
		t.Errorf("p1: got %+v, want value first-source", r1)
	}

	r2 := upromisetest.MustFulfill(t, d, p2).(upromise.AsyncGenResult)
	if r2.Value != "second-source" {
		t.Errorf("p2: got %+v, want value second-source", r2)
	}
}

func TestAsyncGeneratorYieldRejectionRejectsAndUnwinds(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	sentinel := errors.New("source failed")
	src := upromise.NewDeferred(d)
	var observedThrow, observedDone bool

	ag := upromise.NewAsyncGenerator(d, func(ag *upromise.AsyncGenerator) (any, error) {
		y := ag.Yield(src.Promise)
		observedDone = y.NeedDone
		if y.NeedThrow {
			observedThrow = true
			return nil, y.Value.(error)
		}
		return "unexpected", nil
	})

	p := ag.Next(nil)
	d.Run()
	src.Reject(sentinel)

	err := upromisetest.MustReject(t, d, p)
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want %v", err, sentinel)
	}
	if !observedThrow {
		t.Errorf("expected generator body to observe NeedThrow")
	}
	if !observedDone {
		t.Errorf("expected generator body to observe NeedDone alongside NeedThrow, so bodies checking only the generic unwind flag still terminate")
	}
}

func TestAsyncGeneratorNextAfterDoneIsStable(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	ag := upromise.NewAsyncGenerator(d, func(ag *upromise.AsyncGenerator) (any, error) {
		return "value", nil
	})

	p1 := ag.Next(nil)
	r1 := upromisetest.MustFulfill(t, d, p1).(upromise.AsyncGenResult)
	if !r1.Done || r1.Value != "value" {
		t.Errorf("got %+v, want {true value}", r1)
	}

	p2 := ag.Next(nil)
	r2 := upromisetest.MustFulfill(t, d, p2).(upromise.AsyncGenResult)
	if !r2.Done || r2.Value != nil {
		t.Errorf("got %+v, want {true <nil>}", r2)
	}
}

func TestAsyncGeneratorQueuedRequestReceivesBodyReturnValue(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	src := upromise.NewDeferred(d)
	ag := upromise.NewAsyncGenerator(d, func(ag *upromise.AsyncGenerator) (any, error) {
		ag.Yield(src.Promise)
		return "final", nil
	})

	p1 := ag.Next(nil)
	p2 := ag.Next(nil) // arrives before the body has resolved its only yield

	d.Run()
	src.Resolve("ignored-by-second-request")

	r1 := upromisetest.MustFulfill(t, d, p1).(upromise.AsyncGenResult)
	if r1.Done || r1.Value != "ignored-by-second-request" {
		t.Errorf("p1: got %+v", r1)
	}

	r2 := upromisetest.MustFulfill(t, d, p2).(upromise.AsyncGenResult)
	if !r2.Done || r2.Value != "final" {
		t.Errorf("p2: got %+v, want {true final}", r2)
	}
}
