package input

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
	"github.com/dshills/keymap/internal/logging"
)

// Config configures the input handler.
type Config struct {
	// SequenceTimeout is how long to wait for the next key of a multi-key
	// sequence. Zero disables the timeout.
	// Default: 1000ms
	SequenceTimeout time.Duration

	// Clock supplies time. Default: the wall clock.
	Clock Clock

	// Logger receives debug output. Default: logging.Default().
	Logger *logging.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: 1000 * time.Millisecond,
		Clock:           SystemClock(),
	}
}

// Outcome classifies a Result.
type Outcome int

const (
	// Matched means the pending keys resolved to an action.
	Matched Outcome = iota
	// Pending means the keys are a prefix of a longer binding.
	Pending
	// Unmatched means the keys are bound to nothing and were discarded.
	Unmatched
	// TimedOut means a pending sequence expired before it completed.
	TimedOut
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Pending:
		return "pending"
	case Unmatched:
		return "unmatched"
	case TimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result reports what a key did.
type Result[T any] struct {
	Outcome Outcome

	// Action is set when Outcome is Matched, with any captured character
	// already bound into it.
	Action T

	// Item is the matched entry's item.
	Item keymap.Item

	// Keys are the nodes that produced this result.
	Keys key.Sequence

	// Pattern is the compiled expression that matched.
	Pattern key.Sequence

	// Captured is the character taken for a character-group match.
	Captured rune

	// Bound reports whether Captured is meaningful.
	Bound bool
}

// Stats are running counters kept by a Handler.
type Stats struct {
	Keys      uint64
	Matched   uint64
	Unmatched uint64
	TimedOut  uint64
}

// Handler accumulates key presses and resolves them against a keymap.
//
// After every key the pending sequence is looked up: a match is reported
// and cleared, a strict prefix of some binding keeps waiting, anything
// else is reported as unmatched and cleared. A pending sequence that sees
// no key for SequenceTimeout is dropped.
type Handler[T any] struct {
	mu sync.Mutex

	config  Config
	keymap  *keymap.Config[T]
	pending key.Sequence
	last    time.Time

	timer Timer
	// gen invalidates timers armed for an earlier sequence.
	gen uint64

	onResult func(Result[T])
	log      *logging.Logger

	keys      atomic.Uint64
	matched   atomic.Uint64
	unmatched atomic.Uint64
	timedOut  atomic.Uint64

	closed bool
}

// NewHandler creates a handler resolving against km.
func NewHandler[T any](km *keymap.Config[T], config Config) *Handler[T] {
	if config.Clock == nil {
		config.Clock = SystemClock()
	}
	if config.Logger == nil {
		config.Logger = logging.Default()
	}
	return &Handler[T]{
		config: config,
		keymap: km,
		log:    config.Logger.WithComponent("input"),
	}
}

// OnResult sets the callback that receives every result, including the
// ones produced by the sequence timeout. It runs without the handler lock
// held, so it may call back into the handler.
func (h *Handler[T]) OnResult(fn func(Result[T])) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResult = fn
}

// HandleNode processes one key press.
func (h *Handler[T]) HandleNode(n key.Node) Result[T] {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Result[T]{Outcome: Unmatched, Keys: key.Sequence{n}}
	}

	h.keys.Add(1)
	var expired *Result[T]
	now := h.config.Clock.Now()
	if len(h.pending) > 0 && h.config.SequenceTimeout > 0 && now.Sub(h.last) >= h.config.SequenceTimeout {
		r := h.expireLocked()
		expired = &r
	}

	h.pending = h.pending.Append(n)
	h.last = now
	res := h.resolveLocked()
	cb := h.onResult
	h.mu.Unlock()

	if cb != nil {
		if expired != nil {
			cb(*expired)
		}
		cb(res)
	}
	return res
}

// HandleEvent converts a backend event and processes it. Conversion
// errors leave the pending sequence untouched.
func HandleEvent[T, E any](h *Handler[T], convert keymap.Converter[E], ev E) (Result[T], error) {
	n, err := convert(ev)
	if err != nil {
		h.log.Debug("ignoring event: %v", err)
		return Result[T]{}, err
	}
	return h.HandleNode(n), nil
}

func (h *Handler[T]) resolveLocked() Result[T] {
	keys := h.pending.Clone()

	if h.keymap != nil {
		if r, ok := h.keymap.Resolve(keys); ok {
			h.clearLocked()
			h.matched.Add(1)
			h.log.Debug("matched %q as %q", keys.String(), r.Pattern.String())
			return Result[T]{
				Outcome:  Matched,
				Action:   r.Action,
				Item:     r.Item,
				Keys:     keys,
				Pattern:  r.Pattern,
				Captured: r.Captured,
				Bound:    r.HasCapture,
			}
		}

		if h.keymap.HasPrefix(keys) {
			h.armLocked()
			return Result[T]{Outcome: Pending, Keys: keys}
		}
	}

	h.clearLocked()
	h.unmatched.Add(1)
	h.log.Debug("unmatched %q", keys.String())
	return Result[T]{Outcome: Unmatched, Keys: keys}
}

func (h *Handler[T]) expireLocked() Result[T] {
	keys := h.pending
	h.clearLocked()
	h.timedOut.Add(1)
	h.log.Debug("sequence %q timed out", keys.String())
	return Result[T]{Outcome: TimedOut, Keys: keys}
}

// armLocked (re)starts the sequence timer for the current pending keys.
func (h *Handler[T]) armLocked() {
	h.stopLocked()
	if h.config.SequenceTimeout <= 0 {
		return
	}
	h.gen++
	gen := h.gen
	h.timer = h.config.Clock.AfterFunc(h.config.SequenceTimeout, func() {
		h.handleTimeout(gen)
	})
}

func (h *Handler[T]) stopLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *Handler[T]) clearLocked() {
	h.pending = nil
	h.stopLocked()
	h.gen++
}

func (h *Handler[T]) handleTimeout(gen uint64) {
	h.mu.Lock()
	if h.closed || gen != h.gen || len(h.pending) == 0 {
		h.mu.Unlock()
		return
	}
	res := h.expireLocked()
	cb := h.onResult
	h.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// Pending returns a copy of the keys waiting for completion.
func (h *Handler[T]) Pending() key.Sequence {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending.Clone()
}

// PendingKeys returns the pending sequence in canonical text form.
func (h *Handler[T]) PendingKeys() string {
	return h.Pending().String()
}

// Reset drops the pending sequence.
func (h *Handler[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

// SetConfig swaps the keymap and drops the pending sequence, which may
// not mean anything under the new bindings.
func (h *Handler[T]) SetConfig(km *keymap.Config[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keymap = km
	h.clearLocked()
}

// Keymap returns the keymap in use.
func (h *Handler[T]) Keymap() *keymap.Config[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keymap
}

// Stats returns a snapshot of the counters.
func (h *Handler[T]) Stats() Stats {
	return Stats{
		Keys:      h.keys.Load(),
		Matched:   h.matched.Load(),
		Unmatched: h.unmatched.Load(),
		TimedOut:  h.timedOut.Load(),
	}
}

// Close stops the timer. Later keys are reported as unmatched.
func (h *Handler[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.clearLocked()
}

// IsClosed returns true if the handler has been closed.
func (h *Handler[T]) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
