package keymap

import (
	"github.com/dshills/keymap/internal/input/key"
)

// Binder is implemented by actions that carry a character captured from a
// character-group match, e.g. a "jump to register N" action bound to
// "@digit".
//
// Bind returns a copy of the action with ch stored in it. ch is 0 when the
// match did not go through a group.
type Binder[T any] interface {
	Bind(ch rune) T
}

// Capture returns the input character at the position of the first
// character group in pattern. It reports false when pattern has no group or
// the input at that position is not a literal character.
//
// Only the first group is considered.
func Capture(pattern, input key.Sequence) (rune, bool) {
	idx := pattern.FirstGroup()
	if idx < 0 || idx >= len(input) {
		return 0, false
	}
	n := input[idx]
	if !n.Key.IsChar() {
		return 0, false
	}
	return n.Key.Char, true
}

func bind[T any](action T, pattern, input key.Sequence) T {
	b, ok := any(action).(Binder[T])
	if !ok {
		return action
	}
	ch, _ := Capture(pattern, input)
	return b.Bind(ch)
}
