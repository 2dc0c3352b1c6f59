package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator joins modifiers and the key in the textual form ("ctrl-a").
const Separator = '-'

// GroupPrefix introduces a character-group wildcard ("@digit").
const GroupPrefix = '@'

// Node is one key combination: a modifier bitmask plus a key.
// It describes both binding definitions and runtime key presses.
type Node struct {
	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Key identifies the key pressed.
	Key Key
}

// NewNode creates a node from modifiers and a key.
func NewNode(mods Modifier, k Key) Node {
	return Node{Modifiers: mods & modMask, Key: k}
}

// FromKey creates a node without modifiers.
func FromKey(k Key) Node {
	return Node{Key: k}
}

// Matches reports whether two nodes denote the same input, treating a
// character group as equal to every character it accepts. Modifiers
// must be identical.
func (n Node) Matches(other Node) bool {
	return n.Modifiers == other.Modifiers && n.Key.Matches(other.Key)
}

// IsGroup returns true if the node's key is a character-group wildcard.
func (n Node) IsGroup() bool {
	return n.Key.IsGroup()
}

// IsModified returns true if any modifier is set.
func (n Node) IsModified() bool {
	return !n.Modifiers.IsEmpty()
}

// String returns the canonical form, e.g. "alt-ctrl-f1" or "cmd-shift-@upper".
func (n Node) String() string {
	var sb strings.Builder
	for _, mod := range modifierOrder {
		if n.Modifiers.Has(mod) {
			sb.WriteString(mod.Name())
			sb.WriteRune(Separator)
		}
	}
	sb.WriteString(n.Key.String())
	return sb.String()
}

// Parseable reports whether String produces text that Parse accepts.
// Literal characters that are '@' or outside ASCII do not.
func (n Node) Parseable() bool {
	if !n.Key.IsChar() {
		return true
	}
	return n.Key.Char != GroupPrefix && n.Key.Char < utf8.RuneSelf
}

// MarshalText implements encoding.TextMarshaler. Nodes that are not
// Parseable fail with ErrInvalidSpec, so marshaled text always reads back.
func (n Node) MarshalText() ([]byte, error) {
	if !n.Parseable() {
		return nil, fmt.Errorf("%w: literal %q has no key specification", ErrInvalidSpec, n.Key.Char)
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (n *Node) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
