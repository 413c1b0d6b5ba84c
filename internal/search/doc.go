// Package search implements the concurrent password search coordinator.
//
// The package drives an opaque "open archive with password" capability across
// an ordered dictionary of candidate passwords and one or more target
// archives, with bounded parallelism and early termination on the first
// success.
//
// # Key Features
//
//   - Fixed-size worker pool pulling candidates from a queue
//   - Limiter-based admission with structurally scoped slot release
//   - Cooperative cancellation, checked at attempt boundaries only
//   - First-success aggregation with an optional deterministic tie-break
//   - Panic isolation: a panicking decode never leaks a slot
//
// # Basic Usage
//
// Create a coordinator around the decode capability and run it:
//
//	coord, err := search.New(func(target, candidate string) (bool, error) {
//	    err := opener.Extract(target, candidate, dest)
//	    if errors.Is(err, archive.ErrWrongPassword) {
//	        return false, nil
//	    }
//	    return err == nil, err
//	}, search.Options{Parallel: 4})
//
//	result, err := coord.Run(ctx, candidates, targets)
//	if result.Found {
//	    fmt.Println("password:", result.Candidate)
//	}
//
// # Concurrency Guarantees
//
// The coordinator guarantees:
//   - At most Parallel attempts hold a slot at any instant
//   - The cancellation token is set exactly once per run
//   - No new attempt starts after the token is set; at most Parallel-1
//     attempts already in flight run to completion
//   - A reporting worker never blocks: the report channel is buffered to
//     the candidate count
//   - No goroutine leaks; workers unwind in the background after Run returns
//
// # Error Handling
//
// Per-attempt failures other than a wrong password are logged and skipped by
// default; with Options.StrictErrors the first such failure aborts the run
// and is returned to the caller. Exhaustion is not an error: a run over an
// incorrect dictionary returns a Result with Found set to false and a nil
// error.
package search
