// Package watcher keeps the index in step with a directory tree.
//
// Created or modified files are re-ingested with Replace and SkipUnchanged
// set, so saving a file twice costs one extraction and no embedding.
// Removed or renamed files are deleted from the index by name. Events are
// debounced per path because editors emit several writes per save.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// ChangeType is what happened to a watched file.
type ChangeType string

// Change types.
const (
	ChangeUpsert ChangeType = "upsert"
	ChangeRemove ChangeType = "remove"
)

// Change is a debounced file system change.
type Change struct {
	Type ChangeType
	Path string
}

// Name is the document name for the change.
func (c Change) Name() string {
	return filepath.Base(c.Path)
}

// Event reports how a change was applied to the index.
type Event struct {
	Change  Change
	Result  *domain.IngestResult
	Removed int
	Err     error
}

// Watcher applies file system changes under a root directory to the index.
type Watcher struct {
	root     string
	ingest   driving.IngestService
	docs     driving.DocumentService
	debounce time.Duration

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for root.
func New(root string, ingest driving.IngestService, docs driving.DocumentService, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		ingest:   ingest,
		docs:     docs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching the tree and returns a channel of applied events.
// The channel closes when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errors.New("watcher is closed")
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already started")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	events := make(chan Event)
	go w.loop(ctx, fsw, events)
	return events, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]Change)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) && !isHidden(w.root, ev.Name) {
				w.enqueueTree(fsw, ev.Name, pending)
			}
			if change := w.handleFsEvent(ev); change != nil {
				pending[change.Path] = *change
			}
			if len(pending) > 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watch error: %v", err)

		case <-timer.C:
			for path, change := range pending {
				delete(pending, path)
				select {
				case out <- w.apply(ctx, change):
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// handleFsEvent maps a raw notification to a change, or nil when the event
// is irrelevant.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) *Change {
	if isHidden(w.root, ev.Name) {
		return nil
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if !w.ingest.Supports(ev.Name) {
			return nil
		}
		return &Change{Type: ChangeRemove, Path: ev.Name}

	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		if isDir(ev.Name) || !w.ingest.Supports(ev.Name) {
			return nil
		}
		return &Change{Type: ChangeUpsert, Path: ev.Name}

	default:
		return nil
	}
}

// enqueueTree watches a newly created directory and queues the files it
// already holds, since they produce no events of their own.
func (w *Watcher) enqueueTree(fsw *fsnotify.Watcher, dir string, pending map[string]Change) {
	if err := addTree(fsw, dir); err != nil {
		logger.Warn("Watch %s: %v", dir, err)
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || isHidden(w.root, path) || !w.ingest.Supports(path) {
			return nil
		}
		pending[path] = Change{Type: ChangeUpsert, Path: path}
		return nil
	})
}

func (w *Watcher) apply(ctx context.Context, change Change) Event {
	var ev Event
	switch change.Type {
	case ChangeUpsert:
		ev = w.upsert(ctx, change.Path)
		if errors.Is(ev.Err, domain.ErrNotFound) {
			// Deleted before the debounce fired.
			ev = w.remove(ctx, change.Path)
		}
	case ChangeRemove:
		if _, err := os.Stat(change.Path); err == nil {
			// Renamed over or recreated; index the current copy.
			ev = w.upsert(ctx, change.Path)
		} else {
			ev = w.remove(ctx, change.Path)
		}
	}

	if ev.Err != nil {
		logger.Warn("Watch %s %s: %v", ev.Change.Type, change.Path, ev.Err)
	} else {
		logger.Debug("Watch %s %s applied", ev.Change.Type, change.Path)
	}
	return ev
}

func (w *Watcher) upsert(ctx context.Context, path string) Event {
	change := Change{Type: ChangeUpsert, Path: path}
	res, err := w.ingest.IngestFile(ctx, path, domain.IngestOptions{Replace: true, SkipUnchanged: true})
	return Event{Change: change, Result: res, Err: err}
}

func (w *Watcher) remove(ctx context.Context, path string) Event {
	change := Change{Type: ChangeRemove, Path: path}
	n, err := w.docs.DeleteByName(ctx, change.Name())
	if errors.Is(err, domain.ErrNotFound) {
		err = nil
	}
	return Event{Change: change, Removed: n, Err: err}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether any element of path below root starts with a dot.
func isHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return strings.HasPrefix(filepath.Base(path), ".")
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
