package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keymap/internal/input/key"
)

// ErrEmptyBinding is returned for a blank key expression.
var ErrEmptyBinding = errors.New("empty key expression")

// BindingError reports a key expression that could not be compiled.
type BindingError struct {
	// Action is the printed form of the action the expression belongs to.
	Action string

	// Keys is the offending key expression.
	Keys string

	// Err is the underlying error, usually a *key.ParseError.
	Err error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("binding %s to %q: %v", e.Action, e.Keys, e.Err)
}

// Unwrap returns the underlying error.
func (e *BindingError) Unwrap() error {
	return e.Err
}

// Config is a compiled set of bindings: every key expression of every
// entry is parsed once and indexed in a Matcher.
//
// A Config is immutable after construction and safe for concurrent use.
type Config[T any] struct {
	entries []Entry[T]
	matcher *Matcher[int]
}

// NewConfig compiles entries. The first invalid key expression aborts with
// a *BindingError. When two entries bind the same expression the later one
// wins.
func NewConfig[T any](entries []Entry[T], opts ...MatcherOption) (*Config[T], error) {
	c := &Config[T]{
		entries: make([]Entry[T], len(entries)),
		matcher: NewMatcher[int](opts...),
	}

	for i, e := range entries {
		c.entries[i] = Entry[T]{Action: e.Action, Item: e.Item.Clone()}

		for _, keys := range e.Keys {
			if strings.TrimSpace(keys) == "" {
				return nil, &BindingError{Action: fmt.Sprint(e.Action), Keys: keys, Err: ErrEmptyBinding}
			}
			seq, err := key.ParseSeq(keys)
			if err != nil {
				return nil, &BindingError{Action: fmt.Sprint(e.Action), Keys: keys, Err: err}
			}
			c.matcher.Add(seq, i)
		}
	}

	return c, nil
}

// MustConfig is like NewConfig but panics on error.
// Use only for compiled-in defaults.
func MustConfig[T any](entries []Entry[T], opts ...MatcherOption) *Config[T] {
	c, err := NewConfig(entries, opts...)
	if err != nil {
		panic("invalid keymap config: " + err.Error())
	}
	return c
}

// Len returns the number of entries.
func (c *Config[T]) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in definition order.
func (c *Config[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry[T]{Action: e.Action, Item: e.Item.Clone()}
	}
	return out
}

// Get returns the action bound to a single key press.
func (c *Config[T]) Get(n key.Node) (T, bool) {
	return c.GetSeq(key.Sequence{n})
}

// GetSeq returns the action bound to a key sequence.
func (c *Config[T]) GetSeq(nodes key.Sequence) (T, bool) {
	action, _, ok := c.GetItemSeq(nodes)
	return action, ok
}

// GetItem returns the action and item bound to a single key press.
func (c *Config[T]) GetItem(n key.Node) (T, Item, bool) {
	return c.GetItemSeq(key.Sequence{n})
}

// GetItemSeq returns the action and item bound to a key sequence.
func (c *Config[T]) GetItemSeq(nodes key.Sequence) (T, Item, bool) {
	idx, ok := c.matcher.Get(nodes)
	if !ok {
		var zero T
		return zero, Item{}, false
	}
	e := c.entries[idx]
	return e.Action, e.Item, true
}

// GetItemByString parses s as a key sequence and looks it up. Invalid
// input is reported as no match.
func (c *Config[T]) GetItemByString(s string) (T, Item, bool) {
	nodes, err := key.ParseSeq(s)
	if err != nil {
		var zero T
		return zero, Item{}, false
	}
	return c.GetItemSeq(nodes)
}

// GetBound returns the action for a single key press with any captured
// character bound into it. See Binder.
func (c *Config[T]) GetBound(n key.Node) (T, bool) {
	return c.GetBoundSeq(key.Sequence{n})
}

// GetBoundSeq returns the action for a key sequence with any captured
// character bound into it. See Binder.
func (c *Config[T]) GetBoundSeq(nodes key.Sequence) (T, bool) {
	action, _, ok := c.GetBoundItemSeq(nodes)
	return action, ok
}

// GetBoundItemSeq is GetBoundSeq that also returns the item.
func (c *Config[T]) GetBoundItemSeq(nodes key.Sequence) (T, Item, bool) {
	m, ok := c.matcher.Lookup(nodes)
	if !ok {
		var zero T
		return zero, Item{}, false
	}
	e := c.entries[m.Value]
	return bind(e.Action, m.Pattern, nodes), e.Item, true
}

// Resolution is a full lookup result.
type Resolution[T any] struct {
	// Action is the bound action with any captured character applied.
	Action T

	// Item is the matched entry's item.
	Item Item

	// Pattern is the compiled key expression that matched.
	Pattern key.Sequence

	// Captured is the character taken from the input for the first
	// group in Pattern.
	Captured rune

	// HasCapture reports whether Captured is meaningful.
	HasCapture bool
}

// Resolve looks up a key sequence and reports everything known about the
// match.
func (c *Config[T]) Resolve(nodes key.Sequence) (Resolution[T], bool) {
	m, ok := c.matcher.Lookup(nodes)
	if !ok {
		return Resolution[T]{}, false
	}
	e := c.entries[m.Value]
	ch, captured := Capture(m.Pattern, nodes)
	return Resolution[T]{
		Action:     bind(e.Action, m.Pattern, nodes),
		Item:       e.Item,
		Pattern:    m.Pattern,
		Captured:   ch,
		HasCapture: captured,
	}, true
}

// HasPrefix reports whether nodes could still grow into a bound sequence.
func (c *Config[T]) HasPrefix(nodes key.Sequence) bool {
	return c.matcher.HasPrefix(nodes)
}

// ItemFor returns the item of the first entry whose action equals action.
func ItemFor[T comparable](c *Config[T], action T) (Item, bool) {
	for _, e := range c.entries {
		if e.Action == action {
			return e.Item.Clone(), true
		}
	}
	return Item{}, false
}
