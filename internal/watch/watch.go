// Package watch reports changes to collection files in the data directory.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is how long changes are collected before reporting.
	DefaultDebounce = 250 * time.Millisecond

	eventBuffer = 64
)

// Change names a collection whose file was written, replaced or removed.
type Change struct {
	Collection string
	Removed    bool
}

// Watcher watches one directory for collection file changes.
type Watcher struct {
	dir         string
	collections map[string]bool
	debounce    time.Duration
	fsw         *fsnotify.Watcher
	log         *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events chan Change
}

// New creates a watcher for the named collections in dir. A debounce of
// zero uses DefaultDebounce.
func New(dir string, collections []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	names := make(map[string]bool, len(collections))
	for _, c := range collections {
		names[c] = true
	}

	return &Watcher{
		dir:         dir,
		collections: names,
		debounce:    debounce,
		fsw:         fsw,
		log:         slog.Default().With("component", "watch"),
		pending:     make(map[string]fsnotify.Op),
		events:      make(chan Change, eventBuffer),
	}, nil
}

// Events returns the change channel. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Start begins watching. Events flow until ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.dir); err != nil {
		return err
	}
	go w.run(ctx)
	w.log.Debug("watching data directory", "dir", w.dir, "debounce", w.debounce)
	return nil
}

// Stop releases the underlying watch.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if filepath.Ext(base) != ".json" {
		return
	}
	name := strings.TrimSuffix(base, ".json")
	if !w.collections[name] {
		return
	}

	w.pendingMu.Lock()
	w.pending[name] |= ev.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for name, op := range batch {
		removed := op.Has(fsnotify.Remove) || (op.Has(fsnotify.Rename) && !op.Has(fsnotify.Create) && !op.Has(fsnotify.Write))
		select {
		case w.events <- Change{Collection: name, Removed: removed}:
		default:
			w.log.Warn("dropping collection change, consumer is behind", "collection", name)
		}
	}
}
