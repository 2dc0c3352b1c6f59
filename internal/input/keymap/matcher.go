package keymap

import (
	"github.com/dshills/keymap/internal/input/key"
)

// Matcher resolves key sequences against registered patterns.
//
// At every position the input node is tried against, in order:
//  1. an exact child (same modifiers, same key)
//  2. the first character group, in insertion order, whose modifiers are
//     identical and whose predicate accepts the input character (@any excluded)
//  3. an @any group, in insertion order, regardless of the input's key
//     kind or modifiers (so "ctrl-@any" also takes "x" and "enter")
//
// By default the matcher commits to the first branch that applies: when an
// exact child exists but its subtree cannot consume the rest of the input,
// the group branches at that depth are not retried, and neither is @any
// after a specific group was entered. Several @any branches at one depth
// are tried in turn until one resolves. WithBacktracking lifts the other
// restrictions.
//
// A Matcher is not safe for concurrent mutation. Once populated it may be
// read from multiple goroutines.
type Matcher[T any] struct {
	root      *trie[T]
	size      int
	backtrack bool
}

// MatcherOption configures a Matcher.
type MatcherOption func(*matcherOptions)

type matcherOptions struct {
	backtrack bool
}

// WithBacktracking makes the matcher fall back to group branches when a
// more specific branch fails deeper in the sequence.
func WithBacktracking() MatcherOption {
	return func(o *matcherOptions) {
		o.backtrack = true
	}
}

// Match is the result of a successful lookup.
type Match[T any] struct {
	// Value is the value stored for the pattern.
	Value T

	// Pattern is the registered pattern that matched. It may contain
	// character groups where the input had concrete characters.
	Pattern key.Sequence
}

type trie[T any] struct {
	value   T
	set     bool
	pattern key.Sequence
	exact   map[key.Node]*trie[T]
	groups  []groupEdge[T]
}

type groupEdge[T any] struct {
	node  key.Node
	child *trie[T]
}

func newTrie[T any]() *trie[T] {
	return &trie[T]{exact: make(map[key.Node]*trie[T])}
}

func (t *trie[T]) hasChildren() bool {
	return len(t.exact) > 0 || len(t.groups) > 0
}

// NewMatcher creates an empty matcher.
func NewMatcher[T any](opts ...MatcherOption) *Matcher[T] {
	var o matcherOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Matcher[T]{
		root:      newTrie[T](),
		backtrack: o.backtrack,
	}
}

// Add registers value under pattern, replacing any value already stored
// for the same pattern. An empty pattern stores the value on the root.
func (m *Matcher[T]) Add(pattern key.Sequence, value T) {
	node := m.root
	for _, n := range pattern {
		node = node.child(n)
	}
	if !node.set {
		m.size++
	}
	node.value = value
	node.set = true
	node.pattern = pattern.Clone()
}

// child returns the branch for n, creating it if needed. Group nodes are
// deduplicated by structural equality and keep their insertion order.
func (t *trie[T]) child(n key.Node) *trie[T] {
	if n.IsGroup() {
		for _, edge := range t.groups {
			if edge.node == n {
				return edge.child
			}
		}
		child := newTrie[T]()
		t.groups = append(t.groups, groupEdge[T]{node: n, child: child})
		return child
	}

	child, ok := t.exact[n]
	if !ok {
		child = newTrie[T]()
		t.exact[n] = child
	}
	return child
}

// Get returns the value for the input sequence.
func (m *Matcher[T]) Get(nodes key.Sequence) (T, bool) {
	found := m.search(m.root, nodes, 0)
	if found == nil {
		var zero T
		return zero, false
	}
	return found.value, true
}

// Lookup returns the value together with the registered pattern that
// matched the input.
func (m *Matcher[T]) Lookup(nodes key.Sequence) (Match[T], bool) {
	found := m.search(m.root, nodes, 0)
	if found == nil {
		return Match[T]{}, false
	}
	return Match[T]{Value: found.value, Pattern: found.pattern}, true
}

// Len returns the number of registered patterns.
func (m *Matcher[T]) Len() int {
	return m.size
}

// HasPrefix reports whether some registered pattern is strictly longer
// than nodes and starts with a sequence matching nodes. Every branch is
// considered, regardless of priority.
func (m *Matcher[T]) HasPrefix(nodes key.Sequence) bool {
	return m.prefix(m.root, nodes, 0)
}

func (m *Matcher[T]) search(t *trie[T], nodes key.Sequence, pos int) *trie[T] {
	if pos == len(nodes) {
		if t.set {
			return t
		}
		return nil
	}

	in := nodes[pos]

	// 1. Exact. A group in the input only ever equals the same group.
	if child := t.exactChild(in); child != nil {
		found := m.search(child, nodes, pos+1)
		if found != nil || !m.backtrack {
			return found
		}
	}

	// 2. Specific groups in insertion order, literal characters only.
	if in.Key.IsChar() {
		for _, edge := range t.groups {
			g := edge.node.Key.Group
			if g == key.GroupAny || edge.node.Modifiers != in.Modifiers || !g.Matches(in.Key.Char) {
				continue
			}
			found := m.search(edge.child, nodes, pos+1)
			if found != nil || !m.backtrack {
				return found
			}
		}
	}

	// 3. Wildcard. @any takes every input node, whatever its key or
	// modifiers; the first branch that resolves wins.
	for _, edge := range t.groups {
		if edge.node.Key.Group != key.GroupAny {
			continue
		}
		if found := m.search(edge.child, nodes, pos+1); found != nil {
			return found
		}
	}

	return nil
}

// accepts reports whether the group edge can consume in: @any takes
// anything, other groups need a literal character and identical modifiers.
func (e groupEdge[T]) accepts(in key.Node) bool {
	g := e.node.Key.Group
	if g == key.GroupAny {
		return true
	}
	return in.Key.IsChar() && e.node.Modifiers == in.Modifiers && g.Matches(in.Key.Char)
}

func (t *trie[T]) exactChild(in key.Node) *trie[T] {
	if !in.IsGroup() {
		return t.exact[in]
	}
	for _, edge := range t.groups {
		if edge.node == in {
			return edge.child
		}
	}
	return nil
}

func (m *Matcher[T]) prefix(t *trie[T], nodes key.Sequence, pos int) bool {
	if pos == len(nodes) {
		return t.hasChildren()
	}

	in := nodes[pos]
	if child := t.exactChild(in); child != nil && m.prefix(child, nodes, pos+1) {
		return true
	}
	for _, edge := range t.groups {
		if !edge.accepts(in) {
			continue
		}
		if m.prefix(edge.child, nodes, pos+1) {
			return true
		}
	}
	return false
}

// Patterns returns every registered pattern in no particular order.
func (m *Matcher[T]) Patterns() []key.Sequence {
	out := make([]key.Sequence, 0, m.size)
	var walk func(t *trie[T])
	walk = func(t *trie[T]) {
		if t.set {
			out = append(out, t.pattern)
		}
		for _, child := range t.exact {
			walk(child)
		}
		for _, edge := range t.groups {
			walk(edge.child)
		}
	}
	walk(m.root)
	return out
}
