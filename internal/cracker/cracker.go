// Package cracker ties the search coordinator to the archive openers:
// it validates a run's inputs, drives the concurrent password search, and
// applies post-success policies (smart destinations, archive deletion).
package cracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkoval/unseal/internal/archive"
	"github.com/dkoval/unseal/internal/search"
	"github.com/dkoval/unseal/internal/util"
)

// Options configures a Runner
type Options struct {
	// Parallel is the concurrency ceiling for password attempts
	Parallel int

	// Dest is the extraction destination directory
	Dest string

	// Delete removes a target archive after a confirmed success
	Delete bool

	// Smart redirects cluttering archive contents into a folder named
	// after the archive
	Smart bool

	// Strict aborts the run on the first decode failure that is not a
	// wrong password
	Strict bool

	// GraceWindow enables the deterministic tie-break in the search
	GraceWindow time.Duration

	// Logger for structured logging (defaults to slog.Default)
	Logger *slog.Logger
}

// Outcome is the result of a crack run, including side effects
type Outcome struct {
	// Targets are the archive paths the search actually ran against
	Targets []string

	// Result is the terminal search outcome
	Result search.Result

	// Deleted lists archives removed after a confirmed success
	Deleted []string
}

// Runner executes crack runs
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Runner, validating the configuration up front so that a bad
// ceiling is rejected before any work is spawned
func New(opts Options) (*Runner, error) {
	if opts.Parallel < 1 {
		return nil, fmt.Errorf("%w: parallel must be at least 1, got %d", util.ErrInvalidConfig, opts.Parallel)
	}
	if opts.Dest == "" {
		return nil, fmt.Errorf("%w: destination directory is required", util.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Runner{
		opts:   opts,
		logger: opts.Logger.With("component", "cracker"),
	}, nil
}

// Crack runs the password search for candidates against paths.
// Paths that do not sniff as supported archives are skipped with a warning;
// if none remain the run fails with ErrNotArchive.
func (r *Runner) Crack(ctx context.Context, paths []string, candidates []string) (*Outcome, error) {
	if len(candidates) == 0 {
		return nil, util.ErrNoCandidates
	}

	targets, openers, err := r.resolveTargets(paths)
	if err != nil {
		return nil, err
	}

	dests, err := r.resolveDests(targets, openers)
	if err != nil {
		return nil, err
	}

	attempt := func(target, candidate string) (bool, error) {
		err := openers[target].Extract(target, candidate, dests[target])
		if err == nil {
			return true, nil
		}
		if errors.Is(err, archive.ErrWrongPassword) {
			return false, nil
		}
		return false, util.WrapTargetError(target, err)
	}

	coord, err := search.New(attempt, search.Options{
		Parallel:     r.opts.Parallel,
		StrictErrors: r.opts.Strict,
		GraceWindow:  r.opts.GraceWindow,
		Logger:       r.logger,
	})
	if err != nil {
		return nil, err
	}

	result, err := coord.Run(ctx, candidates, targets)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Targets: targets,
		Result:  result,
	}

	if result.Found && r.opts.Delete {
		if err := archive.Delete(result.Target); err != nil {
			r.logger.Warn("failed to delete archive after success",
				"target", result.Target, "error", err)
		} else {
			outcome.Deleted = append(outcome.Deleted, result.Target)
		}
	}

	return outcome, nil
}

// resolveTargets sniffs every path and pairs the usable ones with openers
func (r *Runner) resolveTargets(paths []string) ([]string, map[string]archive.Opener, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one archive is required", util.ErrInvalidConfig)
	}

	targets := make([]string, 0, len(paths))
	openers := make(map[string]archive.Opener, len(paths))

	for _, path := range paths {
		opener, err := archive.OpenerFor(path)
		if err != nil {
			if errors.Is(err, archive.ErrUnsupported) {
				r.logger.Warn("skipping unsupported file", "path", path)
				continue
			}
			return nil, nil, util.WrapTargetError(path, err)
		}
		targets = append(targets, path)
		openers[path] = opener
	}

	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("%w: none of the given paths", util.ErrNotArchive)
	}

	return targets, openers, nil
}

// resolveDests decides each target's extraction destination once, before
// the search starts, so concurrent attempts against the same target agree
func (r *Runner) resolveDests(targets []string, openers map[string]archive.Opener) (map[string]string, error) {
	dests := make(map[string]string, len(targets))
	for _, target := range targets {
		dest, err := archive.SmartDest(openers[target], target, r.opts.Dest, r.opts.Smart)
		if err != nil {
			return nil, util.WrapTargetError(target, err)
		}
		dests[target] = dest
	}
	return dests, nil
}
