package search

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Limiter bounds the number of password attempts that may run concurrently.
// It hands out permits from a fixed pool; Acquire blocks while the pool is
// empty. The buffered channel gives best-effort FIFO admission, which is
// enough to keep any queued task from starving.
type Limiter struct {
	permits chan struct{}

	// held tracks permits currently out, for invariant checks and stats
	held atomic.Int32
}

// Slot is a single admission permit. It must be released exactly once,
// and callers are expected to do so with defer immediately after Acquire
// so that early returns and panics cannot leak it.
type Slot struct {
	l        *Limiter
	released atomic.Bool
}

// NewLimiter creates a limiter with the given concurrency ceiling.
// A ceiling below 1 is a configuration error, not something to silently fix.
func NewLimiter(ceiling int) (*Limiter, error) {
	if ceiling < 1 {
		return nil, fmt.Errorf("concurrency ceiling must be at least 1, got %d", ceiling)
	}

	permits := make(chan struct{}, ceiling)
	for i := 0; i < ceiling; i++ {
		permits <- struct{}{}
	}

	return &Limiter{permits: permits}, nil
}

// Acquire blocks until a permit is available or the context is done.
// On success it returns a Slot that the caller must release exactly once.
func (l *Limiter) Acquire(ctx context.Context) (*Slot, error) {
	select {
	case <-l.permits:
		l.held.Add(1)
		return &Slot{l: l}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns the permit to the pool.
// Releasing the same slot twice panics: it would silently raise the
// effective ceiling, which is the one invariant the limiter exists to hold.
func (s *Slot) Release() {
	if !s.released.CompareAndSwap(false, true) {
		panic("search: slot released twice")
	}
	s.l.held.Add(-1)
	s.l.permits <- struct{}{}
}

// Held returns the number of permits currently out.
// Used by tests to verify the ceiling is never exceeded.
func (l *Limiter) Held() int {
	return int(l.held.Load())
}

// Ceiling returns the configured concurrency ceiling
func (l *Limiter) Ceiling() int {
	return cap(l.permits)
}
