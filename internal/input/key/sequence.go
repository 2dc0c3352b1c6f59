package key

import (
	"strings"
)

// Sequence is an ordered series of nodes forming a (possibly multi-key)
// chord. Examples: "g g", "ctrl-b n", "d @digit".
type Sequence []Node

// Len returns the number of nodes in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no nodes.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Last returns the last node, or nil if empty.
func (s Sequence) Last() *Node {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// At returns the node at the given index, or nil if out of bounds.
func (s Sequence) At(index int) *Node {
	if index < 0 || index >= len(s) {
		return nil
	}
	return &s[index]
}

// String returns the canonical space-separated form, e.g. "ctrl-b n".
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}

	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// Equal returns true if two sequences are structurally identical.
// Groups only equal the same group here; use Matches for wildcard semantics.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, n := range s {
		if n != other[i] {
			return false
		}
	}
	return true
}

// Matches compares position by position with character-group semantics.
func (s Sequence) Matches(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, n := range s {
		if !n.Matches(other[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equal(prefix)
}

// FirstGroup returns the index of the first character-group node, or -1.
func (s Sequence) FirstGroup() int {
	for i, n := range s {
		if n.IsGroup() {
			return i
		}
	}
	return -1
}

// HasGroup returns true if any node is a character-group wildcard.
func (s Sequence) HasGroup() bool {
	return s.FirstGroup() >= 0
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Append returns a new sequence with the nodes appended.
func (s Sequence) Append(nodes ...Node) Sequence {
	out := make(Sequence, len(s), len(s)+len(nodes))
	copy(out, s)
	return append(out, nodes...)
}

// AsString returns the sequence as text if it holds only unmodified
// literal characters.
func (s Sequence) AsString() (string, bool) {
	if len(s) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, n := range s {
		if !n.Key.IsChar() || n.IsModified() {
			return "", false
		}
		sb.WriteRune(n.Key.Char)
	}
	return sb.String(), true
}
