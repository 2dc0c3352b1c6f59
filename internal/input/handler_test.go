package input

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
	"github.com/dshills/keymap/internal/logging"
)

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs the timers that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	kept := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.stopped = true
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	c.timers = kept
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type register struct {
	name string
	ch   rune
}

func (r register) Bind(ch rune) register {
	r.ch = ch
	return r
}

func newTestHandler(t *testing.T, entries ...keymap.Entry[string]) (*Handler[string], *fakeClock) {
	t.Helper()
	if len(entries) == 0 {
		entries = []keymap.Entry[string]{
			keymap.NewEntry("top", "go to top", "g g"),
			keymap.NewEntry("save", "save file", "ctrl-s", "space w"),
			keymap.NewEntry("down", "move down", "j"),
		}
	}
	km, err := keymap.NewConfig(entries)
	require.NoError(t, err)

	clock := newFakeClock()
	h := NewHandler(km, Config{
		SequenceTimeout: time.Second,
		Clock:           clock,
		Logger:          logging.Nop(),
	})
	t.Cleanup(h.Close)
	return h, clock
}

func TestHandlerSingleKey(t *testing.T) {
	h, _ := newTestHandler(t)

	r := h.HandleNode(key.MustParse("j"))
	assert.Equal(t, Matched, r.Outcome)
	assert.Equal(t, "down", r.Action)
	assert.Equal(t, "move down", r.Item.Description)
	assert.Empty(t, h.Pending())
}

func TestHandlerSequence(t *testing.T) {
	h, _ := newTestHandler(t)

	r := h.HandleNode(key.MustParse("g"))
	assert.Equal(t, Pending, r.Outcome)
	assert.Equal(t, "g", h.PendingKeys())

	r = h.HandleNode(key.MustParse("g"))
	assert.Equal(t, Matched, r.Outcome)
	assert.Equal(t, "top", r.Action)
	assert.Equal(t, "g g", r.Keys.String())
	assert.Empty(t, h.PendingKeys())
}

func TestHandlerUnmatchedClears(t *testing.T) {
	h, _ := newTestHandler(t)

	h.HandleNode(key.MustParse("g"))
	r := h.HandleNode(key.MustParse("x"))
	assert.Equal(t, Unmatched, r.Outcome)
	assert.Equal(t, "g x", r.Keys.String())
	assert.Empty(t, h.Pending())

	r = h.HandleNode(key.MustParse("z"))
	assert.Equal(t, Unmatched, r.Outcome)
	assert.Equal(t, "z", r.Keys.String())
}

func TestHandlerTimeoutFires(t *testing.T) {
	h, clock := newTestHandler(t)

	var got []Result[string]
	h.OnResult(func(r Result[string]) { got = append(got, r) })

	h.HandleNode(key.MustParse("space"))
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, "space", h.PendingKeys())

	clock.Advance(600 * time.Millisecond)
	assert.Empty(t, h.Pending())

	require.Len(t, got, 2)
	assert.Equal(t, Pending, got[0].Outcome)
	assert.Equal(t, TimedOut, got[1].Outcome)
	assert.Equal(t, "space", got[1].Keys.String())
	assert.Equal(t, uint64(1), h.Stats().TimedOut)
}

func TestHandlerTimerRestartsPerKey(t *testing.T) {
	km := keymap.MustConfig([]keymap.Entry[string]{
		keymap.NewEntry("abc", "", "a b c"),
	})
	clock := newFakeClock()
	h := NewHandler(km, Config{SequenceTimeout: time.Second, Clock: clock, Logger: logging.Nop()})
	defer h.Close()

	h.HandleNode(key.MustParse("a"))
	clock.Advance(900 * time.Millisecond)
	h.HandleNode(key.MustParse("b"))
	clock.Advance(900 * time.Millisecond)
	assert.Equal(t, "a b", h.PendingKeys())

	r := h.HandleNode(key.MustParse("c"))
	assert.Equal(t, Matched, r.Outcome)
	assert.Equal(t, "abc", r.Action)
}

func TestHandlerLateKeyStartsFresh(t *testing.T) {
	h, clock := newTestHandler(t)

	var outcomes []Outcome
	h.OnResult(func(r Result[string]) { outcomes = append(outcomes, r.Outcome) })

	h.HandleNode(key.MustParse("g"))
	// Move the clock without firing timers, as if the callback were late.
	clock.mu.Lock()
	clock.now = clock.now.Add(2 * time.Second)
	clock.mu.Unlock()

	r := h.HandleNode(key.MustParse("j"))
	assert.Equal(t, Matched, r.Outcome)
	assert.Equal(t, "down", r.Action)
	assert.Equal(t, []Outcome{Pending, TimedOut, Matched}, outcomes)
}

func TestHandlerCapture(t *testing.T) {
	km := keymap.MustConfig([]keymap.Entry[register]{
		keymap.NewEntry(register{name: "select"}, "select register", "\" @alnum"),
	})
	h := NewHandler(km, Config{Clock: newFakeClock(), Logger: logging.Nop()})
	defer h.Close()

	h.HandleNode(key.MustParse("\""))
	r := h.HandleNode(key.MustParse("q"))
	require.Equal(t, Matched, r.Outcome)
	assert.True(t, r.Bound)
	assert.Equal(t, 'q', r.Captured)
	assert.Equal(t, register{name: "select", ch: 'q'}, r.Action)
	assert.Equal(t, "\" @alnum", r.Pattern.String())
}

func TestHandlerReset(t *testing.T) {
	h, clock := newTestHandler(t)

	var got []Result[string]
	h.OnResult(func(r Result[string]) { got = append(got, r) })

	h.HandleNode(key.MustParse("g"))
	h.Reset()
	assert.Empty(t, h.Pending())

	clock.Advance(2 * time.Second)
	require.Len(t, got, 1, "reset must cancel the timeout")
}

func TestHandlerSetConfig(t *testing.T) {
	h, _ := newTestHandler(t)
	h.HandleNode(key.MustParse("g"))

	h.SetConfig(keymap.MustConfig([]keymap.Entry[string]{
		keymap.NewEntry("quit", "", "q"),
	}))
	assert.Empty(t, h.Pending())

	assert.Equal(t, "quit", h.HandleNode(key.MustParse("q")).Action)
	assert.Equal(t, Unmatched, h.HandleNode(key.MustParse("j")).Outcome)
}

func TestHandlerNilKeymap(t *testing.T) {
	h := NewHandler[string](nil, Config{Logger: logging.Nop()})
	defer h.Close()
	assert.Equal(t, Unmatched, h.HandleNode(key.MustParse("a")).Outcome)
}

func TestHandlerCallbackMayReenter(t *testing.T) {
	h, _ := newTestHandler(t)

	var pending key.Sequence
	h.OnResult(func(Result[string]) { pending = h.Pending() })

	h.HandleNode(key.MustParse("g"))
	assert.Equal(t, "g", pending.String())
}

func TestHandleEvent(t *testing.T) {
	h, _ := newTestHandler(t)

	convert := func(s string) (key.Node, error) {
		return key.Parse(s)
	}

	r, err := HandleEvent(h, convert, "ctrl-s")
	require.NoError(t, err)
	assert.Equal(t, "save", r.Action)

	h.HandleNode(key.MustParse("g"))
	_, err = HandleEvent(h, convert, "@bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, key.ErrInvalidSpec))
	assert.Equal(t, "g", h.PendingKeys(), "failed conversion keeps pending keys")
}

func TestHandlerStats(t *testing.T) {
	h, _ := newTestHandler(t)

	h.HandleNode(key.MustParse("j"))
	h.HandleNode(key.MustParse("x"))
	h.HandleNode(key.MustParse("g"))

	s := h.Stats()
	assert.Equal(t, uint64(3), s.Keys)
	assert.Equal(t, uint64(1), s.Matched)
	assert.Equal(t, uint64(1), s.Unmatched)
}

func TestHandlerClose(t *testing.T) {
	h, _ := newTestHandler(t)
	h.Close()
	h.Close()

	assert.True(t, h.IsClosed())
	assert.Equal(t, Unmatched, h.HandleNode(key.MustParse("j")).Outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "unmatched", Unmatched.String())
	assert.Equal(t, "timeout", TimedOut.String())
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, time.Second, c.SequenceTimeout)
	assert.NotNil(t, c.Clock)
}
