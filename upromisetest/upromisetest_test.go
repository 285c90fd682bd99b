package upromisetest_test

import (
	"errors"
	"testing"

	"github.com/loopkit/upromise"
	"github.com/loopkit/upromise/upromisetest"
)

func TestMustFulfillReturnsValue(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	p := upromise.Resolved(d, "ok")
	got := upromisetest.MustFulfill(t, d, p)
	if got != "ok" {
		t.Errorf("got %v, want %q", got, "ok")
	}
}

func TestMustRejectReturnsReason(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	sentinel := errors.New("broke")
	p := upromise.Rejected(d, sentinel)
	got := upromisetest.MustReject(t, d, p)
	if !errors.Is(got, sentinel) {
		t.Errorf("got %v, want %v", got, sentinel)
	}
}

func TestDeferredSettlesUnderlyingPromise(t *testing.T) {
	d := upromise.NewDispatcher()
	defer d.Close()

	def := upromisetest.NewDeferred(d)
	upromisetest.AssertPending(t, def.Promise)

	def.Resolve("later")
	got := upromisetest.MustFulfill(t, d, def.Promise)
	if got != "later" {
		t.Errorf("got %v, want %q", got, "later")
	}
}
