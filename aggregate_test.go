package upromise_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/loopkit/upromise"
	"github.com/loopkit/upromise/upromisetest"
)

func TestAllCollectsInArgumentOrder(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	a := upromise.NewDeferred(d)
	b := upromise.NewDeferred(d)
	c := upromise.NewDeferred(d)

	p := upromise.All(d, a.Promise, b.Promise, c.Promise)

	// Settle out of order: the collected values must still follow the
	// argument order, not the settlement order.
	c.Resolve("third")
	a.Resolve("first")
	d.Run()
	upromisetest.AssertPending(t, p)
	b.Resolve("second")

	got := upromisetest.MustFulfill(t, d, p).([]any)
	want := []any{"first", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All values (-want +got):\n%s", diff)
	}
}

func TestAllRejectsOnFirstRejection(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	sentinel := errors.New("broke")
	a := upromise.NewDeferred(d)
	b := upromise.NewDeferred(d)

	p := upromise.All(d, a.Promise, b.Promise)
	b.Reject(sentinel)

	err := upromisetest.MustReject(t, d, p)
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want %v", err, sentinel)
	}
}

func TestAllOfNothingFulfillsEmpty(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	got := upromisetest.MustFulfill(t, d, upromise.All(d)).([]any)
	if len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

func TestRaceFirstSettlementWins(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	slow := upromise.NewDeferred(d)
	fast := upromise.NewDeferred(d)

	p := upromise.Race(d, slow.Promise, fast.Promise)
	fast.Resolve("winner")
	d.Run()
	slow.Resolve("loser")

	got := upromisetest.MustFulfill(t, d, p)
	if got != "winner" {
		t.Errorf("got %v, want %q", got, "winner")
	}
}

func TestRaceRejectionCanWin(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	sentinel := errors.New("first to settle")
	slow := upromise.NewDeferred(d)
	p := upromise.Race(d, upromise.Rejected(d, sentinel), slow.Promise)

	err := upromisetest.MustReject(t, d, p)
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want %v", err, sentinel)
	}
}

func TestAllSettledNeverRejects(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	sentinel := errors.New("broke")
	p := upromise.AllSettled(d, upromise.Resolved(d, "ok"), upromise.Rejected(d, sentinel))

	got := upromisetest.MustFulfill(t, d, p).([]upromise.Settlement)
	want := []upromise.Settlement{
		{State: upromise.Fulfilled, Value: "ok"},
		{State: upromise.Rejected, Err: sentinel},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("settlements (-want +got):\n%s", diff)
	}
}

func TestNextTickRunsAfterAlreadyQueuedTasks(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	var order []string
	upromise.Resolved(d, nil).Then(func(v any) (any, error) {
		order = append(order, "queued-first")
		return nil, nil
	}, nil)

	p := upromise.NextTick(d)
	p.Then(func(v any) (any, error) {
		order = append(order, "tick")
		return nil, nil
	}, nil)

	upromisetest.MustFulfill(t, d, p)
	d.Run()

	want := []string{"queued-first", "tick"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("execution order (-want +got):\n%s", diff)
	}
}
