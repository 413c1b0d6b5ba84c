package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// AttemptFunc is the opaque decode capability the coordinator drives.
// It tries to open target with the candidate password. ok reports success.
// A non-nil error means the attempt failed for a reason other than a wrong
// password (corrupt archive, I/O problem); a plain wrong password is
// (false, nil).
type AttemptFunc func(target, candidate string) (ok bool, err error)

// Options configures a Coordinator
type Options struct {
	// Parallel is the concurrency ceiling. Values below 1 are rejected.
	Parallel int

	// StrictErrors aborts the run on the first decode failure that is not
	// a wrong password, instead of skipping the target and moving on
	StrictErrors bool

	// GraceWindow, when positive, keeps collecting success reports for
	// that duration after the first one and prefers the lowest original
	// candidate index among them. Zero means strict first-arrival.
	GraceWindow time.Duration

	// Logger for structured logging (defaults to slog.Default)
	Logger *slog.Logger
}

// Coordinator owns a password search: it fans candidates out across a
// bounded pool of workers, each of which tries every target with its
// candidate, and collects the first success.
//
// A Coordinator is reusable; the per-run state (token, limiter, counters)
// is created fresh inside Run.
type Coordinator struct {
	attempt AttemptFunc
	opts    Options
	logger  *slog.Logger
}

// candidate pairs a password with its position in the original list
type candidate struct {
	value string
	index int
}

// New creates a Coordinator. The concurrency ceiling is validated here,
// before any run starts.
func New(attempt AttemptFunc, opts Options) (*Coordinator, error) {
	if attempt == nil {
		return nil, fmt.Errorf("attempt function is required")
	}
	if opts.Parallel < 1 {
		return nil, fmt.Errorf("parallel must be at least 1, got %d", opts.Parallel)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Coordinator{
		attempt: attempt,
		opts:    opts,
		logger:  opts.Logger.With("component", "search"),
	}, nil
}

// run holds the shared mutable state of a single search run.
// The token and the limiter are the only state workers touch concurrently.
type run struct {
	token   *Token
	limiter *Limiter
	reports chan report

	attempts atomic.Int64
	skipped  atomic.Int64

	// strict-mode abort: first non-password failure wins
	aborted  atomic.Bool
	abortErr error
	abortMu  sync.Mutex
}

// stop reports whether workers should refrain from starting new attempts
func (r *run) stop() bool {
	return r.token.Cancelled() || r.aborted.Load()
}

// abort records the first fatal decode failure and stops the run
func (r *run) abort(err error) {
	r.abortMu.Lock()
	if r.abortErr == nil {
		r.abortErr = err
	}
	r.abortMu.Unlock()
	r.aborted.Store(true)
}

// Run executes the search and blocks until a first success is observed or
// every candidate has been exhausted against every target.
//
// On success it returns immediately; workers still unwinding their current
// attempt finish in the background. The report channel is buffered to the
// candidate count so a late reporter can never block on slot release.
func (c *Coordinator) Run(ctx context.Context, candidates []string, targets []string) (Result, error) {
	if len(targets) == 0 {
		return notFound(Stats{}), fmt.Errorf("at least one target is required")
	}

	limiter, err := NewLimiter(c.opts.Parallel)
	if err != nil {
		return notFound(Stats{}), err
	}

	start := time.Now()

	r := &run{
		token:   NewToken(),
		limiter: limiter,
		reports: make(chan report, len(candidates)),
	}

	c.logger.Info("starting search",
		"candidates", len(candidates),
		"targets", len(targets),
		"parallel", c.opts.Parallel)

	// Queue every candidate up front; workers pull from the channel so the
	// number of live goroutines stays bounded even for huge dictionaries.
	queue := make(chan candidate, len(candidates))
	for i, value := range candidates {
		queue <- candidate{value: value, index: i}
	}
	close(queue)

	workers := c.opts.Parallel
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go c.worker(ctx, i, r, queue, targets, &wg)
	}

	// Close the report channel once every worker is done, so the
	// aggregator can distinguish "no success yet" from "no success ever"
	go func() {
		wg.Wait()
		close(r.reports)
	}()

	return c.aggregate(ctx, r, start, len(candidates))
}

// worker pulls candidates from the queue until it is drained or the run
// is over, holding a limiter slot for the duration of each candidate's work.
func (c *Coordinator) worker(ctx context.Context, id int, r *run, queue <-chan candidate, targets []string, wg *sync.WaitGroup) {
	defer wg.Done()

	for cand := range queue {
		if r.stop() || ctx.Err() != nil {
			r.skipped.Add(1)
			continue
		}

		slot, err := r.limiter.Acquire(ctx)
		if err != nil {
			r.skipped.Add(1)
			continue
		}

		c.tryCandidate(ctx, id, r, slot, cand, targets)
	}

	c.logger.Debug("worker finished", "worker_id", id)
}

// tryCandidate runs one candidate against every target in order.
// The slot release and the panic guard are deferred so no exit path,
// including a panicking decode, can leak the permit.
func (c *Coordinator) tryCandidate(ctx context.Context, workerID int, r *run, slot *Slot, cand candidate, targets []string) {
	defer slot.Release()
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("attempt panicked",
				"worker_id", workerID,
				"candidate_index", cand.index,
				"panic", rec)
		}
	}()

	for _, target := range targets {
		// A decode in progress runs to completion, but no new target is
		// started once another worker has already found the password.
		if r.stop() || ctx.Err() != nil {
			return
		}

		r.attempts.Add(1)
		c.logger.Debug("attempt start",
			"worker_id", workerID,
			"target", target,
			"candidate_index", cand.index)

		attemptStart := time.Now()
		ok, err := c.attempt(target, cand.value)

		c.logger.Debug("attempt end",
			"worker_id", workerID,
			"target", target,
			"candidate_index", cand.index,
			"success", ok,
			"duration_ms", time.Since(attemptStart).Milliseconds())

		if err != nil {
			c.logger.Warn("decode failed",
				"target", target,
				"candidate_index", cand.index,
				"error", err)
			if c.opts.StrictErrors {
				r.abort(err)
				return
			}
			continue
		}

		if ok {
			first := r.token.Set()
			if first {
				c.logger.Info("password found",
					"target", target,
					"candidate_index", cand.index)
				c.logger.Info("cancelling remaining work")
			}
			// Report even when not first: two different candidates can
			// legitimately open the same archive, and the aggregator
			// discards everything after its pick. The channel is buffered
			// to the candidate count so this send never blocks.
			r.reports <- report{candidate: cand.value, target: target, index: cand.index}
			return
		}
	}
}

// aggregate waits for the first success report or for the report channel
// to close with none. With a grace window configured it keeps collecting
// for that window and prefers the lowest original candidate index.
func (c *Coordinator) aggregate(ctx context.Context, r *run, start time.Time, candidates int) (Result, error) {
	rep, ok := <-r.reports
	if !ok {
		// All workers finished without a single report
		stats := c.stats(r, start, candidates)
		if r.aborted.Load() {
			r.abortMu.Lock()
			err := r.abortErr
			r.abortMu.Unlock()
			return notFound(stats), err
		}
		if err := ctx.Err(); err != nil {
			return notFound(stats), err
		}
		c.logger.Info("search exhausted", "attempts", stats.Attempts)
		return notFound(stats), nil
	}

	best := rep
	if c.opts.GraceWindow > 0 {
		timer := time.NewTimer(c.opts.GraceWindow)
		defer timer.Stop()

	collect:
		for {
			select {
			case extra, more := <-r.reports:
				if !more {
					break collect
				}
				if extra.index < best.index {
					best = extra
				}
			case <-timer.C:
				break collect
			}
		}
	}

	// Remaining in-flight workers unwind in the background; the buffered
	// report channel absorbs any late duplicates.
	return Result{
		Found:     true,
		Candidate: best.candidate,
		Target:    best.target,
		Index:     best.index,
		Stats:     c.stats(r, start, candidates),
	}, nil
}

// stats snapshots the run counters
func (c *Coordinator) stats(r *run, start time.Time, candidates int) Stats {
	return Stats{
		Candidates: candidates,
		Attempts:   int(r.attempts.Load()),
		Skipped:    int(r.skipped.Load()),
		Duration:   time.Since(start),
	}
}
