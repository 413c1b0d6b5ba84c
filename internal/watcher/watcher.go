// Package watcher monitors folders for newly arrived archives.
//
// Watch mode uses it to pick up downloads as they land: filesystem events
// are debounced per path, since a file being written produces a burst of
// writes, and only paths that sniff as supported archives are emitted.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dkoval/unseal/internal/archive"
)

// defaultDebounce is how long a path must stay quiet before it is emitted
const defaultDebounce = 500 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// Recursive also watches subdirectories of added folders, including
	// ones created later
	Recursive bool

	// Debounce is the quiet period before a changed path is emitted
	// (defaults to 500ms)
	Debounce time.Duration

	// Logger for structured logging (defaults to slog.Default)
	Logger *slog.Logger
}

// Watcher emits archive paths as they appear in watched folders
type Watcher struct {
	fs      *fsnotify.Watcher
	opts    Options
	logger  *slog.Logger
	archive chan string

	mu      sync.Mutex
	watched map[string]bool

	debounceMu sync.Mutex
	timers     map[string]*time.Timer
}

// New creates a Watcher. Call AddFolder for each folder, then Run to start
// the event loop.
func New(opts Options) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Watcher{
		fs:      fs,
		opts:    opts,
		logger:  opts.Logger.With("component", "watcher"),
		archive: make(chan string, 16),
		watched: make(map[string]bool),
		timers:  make(map[string]*time.Timer),
	}, nil
}

// AddFolder starts watching a folder for new archives
func (w *Watcher) AddFolder(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched[path] {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch path %s is not a directory", path)
	}

	if err := w.fs.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.watched[path] = true
	w.logger.Info("watching folder", "path", path, "recursive", w.opts.Recursive)

	if !w.opts.Recursive {
		return nil
	}

	return filepath.Walk(path, func(sub string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && sub != path && !w.watched[sub] {
			if err := w.fs.Add(sub); err != nil {
				return fmt.Errorf("failed to watch %s: %w", sub, err)
			}
			w.watched[sub] = true
		}
		return nil
	})
}

// Archives returns the channel on which discovered archive paths are emitted
func (w *Watcher) Archives() <-chan string {
	return w.archive
}

// Run processes filesystem events until the context is cancelled.
// It closes the archive channel on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.archive)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handleEvent reacts to a single filesystem event
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// File vanished between event and stat
		return
	}

	if info.IsDir() {
		if w.opts.Recursive && event.Has(fsnotify.Create) {
			if err := w.AddFolder(event.Name); err != nil {
				w.logger.Warn("failed to watch new folder", "path", event.Name, "error", err)
			}
		}
		return
	}

	w.debounce(ctx, event.Name)
}

// debounce waits for the path to stop changing before emitting it.
// A new event on the same path resets its timer.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.opts.Debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.timers, path)
		w.debounceMu.Unlock()

		w.emit(ctx, path)
	})
}

// emit sends the path if it sniffs as a supported archive
func (w *Watcher) emit(ctx context.Context, path string) {
	if !archive.IsArchive(path) {
		w.logger.Debug("ignoring non-archive file", "path", path)
		return
	}

	w.logger.Info("archive detected", "path", path)

	select {
	case w.archive <- path:
	case <-ctx.Done():
	}
}

// Close releases the underlying filesystem watcher
func (w *Watcher) Close() error {
	w.debounceMu.Lock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.debounceMu.Unlock()

	return w.fs.Close()
}
