// Package watcher reports changes to a fixed set of files.
//
// Directories are watched rather than the files themselves, so files that
// editors replace by rename are still tracked. Bursts of events are batched
// into one [Event] per debounce window.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the batching window for change events.
const DefaultDebounce = 100 * time.Millisecond

// Event is a batch of changes to watched files.
type Event struct {
	Paths     []string // absolute, sorted, deduplicated
	Timestamp time.Time
}

// FileWatcher watches files for writes, creation and renames.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	events   chan Event
	logger   *log.Logger
	Debounce time.Duration
}

// New watches paths. Empty paths are ignored. The files need not exist yet,
// but their directories must.
func New(logger *log.Logger, paths ...string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		events:   make(chan Event, 16),
		logger:   logger,
		Debounce: DefaultDebounce,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Events returns the channel of change batches. It is closed when Run returns.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

// Run processes file system events until ctx is done, then closes the
// underlying watcher.
func (fw *FileWatcher) Run(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	pending := make(map[string]bool)
	flushTimer := time.NewTimer(fw.Debounce)
	flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if !fw.files[name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending[name] = true
			flushTimer.Reset(fw.Debounce)

		case <-flushTimer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			select {
			case fw.events <- Event{Paths: paths, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("watcher error", "err", err)
		}
	}
}
