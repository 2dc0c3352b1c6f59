// Package watcher reloads a binding file when it changes on disk.
//
// The file's directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are seen as a single change.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keymap/internal/logging"
)

// ErrClosed is returned when starting a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last coalesced change was seen.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a change has settled.
type Handler func(event Event)

// Watcher monitors one file for changes.
type Watcher struct {
	mu sync.Mutex

	path     string
	fs       *fsnotify.Watcher
	handlers []Handler
	debounce time.Duration
	log      *logging.Logger

	// pending coalesces events until the debounce timer fires.
	pending *Event
	timer   *time.Timer

	running bool
	closed  bool
	done    chan struct{}

	// loop tracks the event goroutine, calls the handler goroutines.
	loop  sync.WaitGroup
	calls sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before handlers run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithHandler registers a handler at construction.
func WithHandler(h Handler) Option {
	return func(w *Watcher) {
		w.handlers = append(w.handlers, h)
	}
}

// New creates a watcher for path. The file need not exist yet, but its
// directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		debounce: 100 * time.Millisecond,
		log:      logging.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("watcher").WithField("path", absPath)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fs = fsw
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start processes events in the background until ctx is done or Close is
// called. Starting twice is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.running {
		return nil
	}
	w.running = true

	w.loop.Add(1)
	go w.run(ctx)
	return nil
}

// Close stops the watcher. Pending changes are dropped and handlers that
// have not started yet are skipped. Close does not wait for a handler that
// is already running, so a handler may close its own watcher; use Wait for
// that.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	w.loop.Wait()
	return w.fs.Close()
}

// Wait blocks until every handler call already under way has returned.
// Call it after Close, and never from a handler.
func (w *Watcher) Wait() {
	w.calls.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.loop.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != w.path {
		return
	}
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	w.log.Debug("fs event %s", ev.Op)
	w.queue(Event{Path: name, Op: op, Time: time.Now()})
}

// convertOp maps fsnotify bits to a single operation; chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return 0, false
}

// coalesce merges a new operation into a pending one:
// a create followed by anything but a remove stays a create, and a later
// create after a remove or rename (the rename-over save) becomes a write.
func coalesce(prev, next Operation) Operation {
	switch {
	case next == OpRemove || next == OpRename:
		return next
	case prev == OpCreate:
		return OpCreate
	case next == OpCreate && (prev == OpRemove || prev == OpRename):
		return OpWrite
	}
	return next
}

func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		ev.Op = coalesce(w.pending.Op, ev.Op)
	}
	w.pending = &ev

	if w.debounce == 0 {
		w.flushLocked()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed {
			w.flushLocked()
		}
	})
}

// flushLocked delivers the pending event. Handlers run on their own
// goroutine so they may call back into the watcher, Close included.
func (w *Watcher) flushLocked() {
	if w.pending == nil {
		return
	}
	ev := *w.pending
	w.pending = nil
	handlers := append([]Handler(nil), w.handlers...)

	w.calls.Add(1)
	go func() {
		defer w.calls.Done()
		for _, h := range handlers {
			if w.isClosed() {
				return
			}
			w.safeCall(h, ev)
		}
	}()
}

func (w *Watcher) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// safeCall keeps a panicking handler from taking the watcher down.
func (w *Watcher) safeCall(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("handler panic: %v", r)
		}
	}()
	h(ev)
}
