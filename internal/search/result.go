package search

import (
	"fmt"
	"strings"
	"time"
)

// Result is the terminal outcome of a run: either the first candidate/target
// pair observed to succeed, or not-found after every candidate was exhausted
// against every target.
type Result struct {
	// Found indicates whether any candidate opened any target
	Found bool

	// Candidate is the winning password (empty when Found is false)
	Candidate string

	// Target is the archive the winning password opened
	Target string

	// Index is the winning candidate's position in the original list,
	// -1 when Found is false
	Index int

	// Stats describes the work the run performed
	Stats Stats
}

// Stats aggregates counters for a completed run
type Stats struct {
	// Candidates is the total number of candidates supplied
	Candidates int

	// Attempts is the number of decode attempts actually made
	Attempts int

	// Skipped is the number of candidates abandoned after cancellation,
	// without a single decode attempt
	Skipped int

	// Duration is the wall-clock time of the run
	Duration time.Duration
}

// notFound builds the terminal value for a run with no success
func notFound(stats Stats) Result {
	return Result{Found: false, Index: -1, Stats: stats}
}

// String returns a human-readable one-line summary of the result
func (r Result) String() string {
	var sb strings.Builder

	if r.Found {
		sb.WriteString(fmt.Sprintf("found password %q for %s", r.Candidate, r.Target))
	} else {
		sb.WriteString("no candidate opened any target")
	}

	sb.WriteString(fmt.Sprintf(" (candidates: %d, attempts: %d, skipped: %d, duration: %s)",
		r.Stats.Candidates, r.Stats.Attempts, r.Stats.Skipped,
		r.Stats.Duration.Round(time.Millisecond)))

	return sb.String()
}

// AttemptRate returns the fraction of candidates that got at least one
// decode attempt, as a percentage (0.0 to 100.0)
func (s Stats) AttemptRate() float64 {
	if s.Candidates == 0 {
		return 0.0
	}
	tried := s.Candidates - s.Skipped
	return float64(tried) / float64(s.Candidates) * 100.0
}

// report is a single Found observation sent from a worker to the aggregator
type report struct {
	candidate string
	target    string
	index     int
}
