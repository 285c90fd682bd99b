// Package upromisetest provides small test helpers for code built on
// package upromise: draining a dispatcher to idle, asserting a promise's
// settled outcome, and a Deferred-style adapter grounded in the
// Promises/A+ test suite's own "deferred()" idiom.
package upromisetest

import (
	"testing"

	"github.com/loopkit/upromise"
)

// RunToIdle drains d's task queue with a single call to Run, which itself
// loops until the queue is empty. It exists mainly for
// readability at call sites ("run the loop to quiescence" reads better
// than a bare d.Run()).
func RunToIdle(d *upromise.Dispatcher) {
	d.Run()
}

// MustFulfill drains d to idle and then asserts that p is Fulfilled,
// returning its value. It fails the test immediately (t.Fatalf) if p
// never settles, or settles rejected.
func MustFulfill(t *testing.T, d *upromise.Dispatcher, p *upromise.Promise) any {
	t.Helper()
	RunToIdle(d)
	switch p.State() {
	case upromise.Fulfilled:
		return p.Value()
	case upromise.Rejected:
		t.Fatalf("expected promise to fulfill, but it rejected with: %v", p.Err())
	default:
		t.Fatalf("expected promise to fulfill, but it is still %v after draining to idle", p.State())
	}
	return nil
}

// MustReject drains d to idle and then asserts that p is Rejected,
// returning its reason. It fails the test immediately if p never
// settles, or settles fulfilled.
func MustReject(t *testing.T, d *upromise.Dispatcher, p *upromise.Promise) error {
	t.Helper()
	RunToIdle(d)
	switch p.State() {
	case upromise.Rejected:
		return p.Err()
	case upromise.Fulfilled:
		t.Fatalf("expected promise to reject, but it fulfilled with: %v", p.Value())
	default:
		t.Fatalf("expected promise to reject, but it is still %v after draining to idle", p.State())
	}
	return nil
}

// AssertPending fails the test unless p is still Pending.
func AssertPending(t *testing.T, p *upromise.Promise) {
	t.Helper()
	if p.State() != upromise.Pending {
		t.Errorf("expected promise to still be pending, got %v", p.State())
	}
}

// Deferred wraps upromise.NewDeferred for tests that want the classic
// Promises/A+ adapter shape: an object exposing a promise plus the two
// functions that settle it.
type Deferred = upromise.Deferred

// NewDeferred is an alias for upromise.NewDeferred, kept here so test
// files that already import upromisetest don't need a second import just
// to build an adapter.
func NewDeferred(d *upromise.Dispatcher) Deferred {
	return upromise.NewDeferred(d)
}
