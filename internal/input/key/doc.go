// Package key provides the key model and the key specification parser.
//
// This package defines the fundamental types for describing keyboard input:
//
//   - Modifier: Bitmask over Alt, Cmd, Ctrl and Shift
//   - Key: A named key, function key, literal character or character group
//   - Node: A key combined with modifiers
//   - Sequence: A series of nodes forming a chord
//
// # Key Specifications
//
// Specifications are lowercase, hyphen-separated and modifier-order
// independent:
//
//   - Characters: "a", "A", "1", "#"
//   - Named keys: "enter", "esc", "tab", "backtab", "del", "pageup", "space"
//   - Function keys: "f0" through "f12"
//   - With modifiers: "ctrl-s", "alt-f4", "shift-ctrl-p" (same as "ctrl-shift-p")
//   - Character groups: "@digit", "@lower", "@upper", "@alpha", "@alnum", "@any"
//
// # Key Sequences
//
// Multi-key sequences such as "g g" or "ctrl-b n" are written as
// whitespace-separated specifications and parsed with ParseSeq.
//
// # Character Groups
//
// A group node stands for every character its predicate accepts.
// Node.Matches applies that rule; plain == compares structurally.
package key
