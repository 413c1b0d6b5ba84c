package search

import "sync/atomic"

// Token is the cancellation signal shared by every task in a run.
// It transitions from unset to set exactly once; there is no reset.
// Workers check it before starting a new attempt, never mid-attempt,
// since the archive decode call is not preemptible.
type Token struct {
	set atomic.Bool
}

// NewToken creates an unset token for a single run.
// Tokens are not reused across runs.
func NewToken() *Token {
	return &Token{}
}

// Set marks the token as cancelled.
// Returns true for the first caller to set it, false for every later caller.
// The first-caller distinction is what lets exactly one task claim the win.
func (t *Token) Set() bool {
	return t.set.CompareAndSwap(false, true)
}

// Cancelled reports whether the token has been set
func (t *Token) Cancelled() bool {
	return t.set.Load()
}
