package upromise

import "errors"

// ErrRecurse is the sentinel rejection reason used when a promise
// attempts to resolve itself through ResolveThenable — the identity
// check required by Promises/A+ §2.3.1. It is a stable, comparable value:
// callers distinguish it with errors.Is, never by message content.
var ErrRecurse = errors.New("upromise: forbid recursively resolving itself")
