package key

import (
	"fmt"
	"strconv"
)

// Code identifies which kind of key a Key value holds.
type Code uint8

const (
	// KeyNone is the zero Code and never produced by the parser.
	KeyNone Code = iota

	// Named keys
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyDown
	KeyEnd
	KeyEnter
	KeyEsc
	KeyHome
	KeyInsert
	KeyLeft
	KeyPageDown
	KeyPageUp
	KeyRight
	KeySpace
	KeyTab
	KeyUp

	// KeyF is a function key; the number lives in Key.Fn.
	KeyF

	// KeyChar is a literal character; the character lives in Key.Char.
	KeyChar

	// KeyGroup is a character-group wildcard; the group lives in Key.Group.
	KeyGroup
)

// MaxFn is the highest function key number accepted by the grammar.
const MaxFn = 12

// codeNames holds the canonical token of every named key.
var codeNames = map[Code]string{
	KeyBackTab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyDown:      "down",
	KeyEnd:       "end",
	KeyEnter:     "enter",
	KeyEsc:       "esc",
	KeyHome:      "home",
	KeyInsert:    "insert",
	KeyLeft:      "left",
	KeyPageDown:  "pagedown",
	KeyPageUp:    "pageup",
	KeyRight:     "right",
	KeySpace:     "space",
	KeyTab:       "tab",
	KeyUp:        "up",
}

// keyNameMap maps grammar tokens to named key codes.
var keyNameMap = map[string]Code{
	"backtab":   KeyBackTab,
	"backspace": KeyBackspace,
	"del":       KeyDelete,
	"delete":    KeyDelete,
	"down":      KeyDown,
	"end":       KeyEnd,
	"enter":     KeyEnter,
	"esc":       KeyEsc,
	"home":      KeyHome,
	"insert":    KeyInsert,
	"left":      KeyLeft,
	"pagedown":  KeyPageDown,
	"pageup":    KeyPageUp,
	"right":     KeyRight,
	"space":     KeySpace,
	"tab":       KeyTab,
	"up":        KeyUp,
}

// IsNamed returns true for the fixed named keys (enter, esc, arrows, ...).
func (c Code) IsNamed() bool {
	return c >= KeyBackTab && c <= KeyUp
}

// String returns the canonical token for named codes and a short
// description for the variable ones.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	switch c {
	case KeyNone:
		return "none"
	case KeyF:
		return "fn"
	case KeyChar:
		return "char"
	case KeyGroup:
		return "group"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

// CodeFromName returns the named key for a grammar token.
// Returns KeyNone if the token is not a named key.
func CodeFromName(name string) Code {
	if c, ok := keyNameMap[name]; ok {
		return c
	}
	return KeyNone
}

// CharGroup is a named predicate class over characters.
type CharGroup uint8

const (
	// GroupDigit matches ASCII digits (0-9).
	GroupDigit CharGroup = iota
	// GroupLower matches lowercase ASCII letters.
	GroupLower
	// GroupUpper matches uppercase ASCII letters.
	GroupUpper
	// GroupAlpha matches ASCII letters.
	GroupAlpha
	// GroupAlnum matches ASCII letters and digits.
	GroupAlnum
	// GroupAny matches every character.
	GroupAny
)

var groupNames = [...]string{
	GroupDigit: "digit",
	GroupLower: "lower",
	GroupUpper: "upper",
	GroupAlpha: "alpha",
	GroupAlnum: "alnum",
	GroupAny:   "any",
}

// Matches reports whether c belongs to the group.
func (g CharGroup) Matches(c rune) bool {
	switch g {
	case GroupDigit:
		return c >= '0' && c <= '9'
	case GroupLower:
		return c >= 'a' && c <= 'z'
	case GroupUpper:
		return c >= 'A' && c <= 'Z'
	case GroupAlpha:
		return GroupLower.Matches(c) || GroupUpper.Matches(c)
	case GroupAlnum:
		return GroupAlpha.Matches(c) || GroupDigit.Matches(c)
	case GroupAny:
		return true
	default:
		return false
	}
}

// Name returns the group name without the "@" prefix.
func (g CharGroup) Name() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("group%d", uint8(g))
}

// String returns the grammar token, e.g. "@digit".
func (g CharGroup) String() string {
	return string(GroupPrefix) + g.Name()
}

// GroupFromName resolves a group name (without "@"). "char" is an alias
// of "any".
func GroupFromName(name string) (CharGroup, bool) {
	switch name {
	case "digit":
		return GroupDigit, true
	case "lower":
		return GroupLower, true
	case "upper":
		return GroupUpper, true
	case "alpha":
		return GroupAlpha, true
	case "alnum":
		return GroupAlnum, true
	case "any", "char":
		return GroupAny, true
	default:
		return 0, false
	}
}

// Key is the non-modifier part of a key combination.
//
// Key values are comparable; build them with Named, Fn, Char or Group so
// that unused fields stay zero and == means true key equality.
type Key struct {
	// Code selects the variant.
	Code Code

	// Fn is the function key number for KeyF.
	Fn uint8

	// Char is the character for KeyChar.
	Char rune

	// Group is the wildcard class for KeyGroup.
	Group CharGroup
}

// Named returns the Key for a named code such as KeyEnter.
func Named(c Code) Key {
	return Key{Code: c}
}

// Fn returns function key n.
func Fn(n uint8) Key {
	return Key{Code: KeyF, Fn: n}
}

// Char returns a literal character key.
func Char(c rune) Key {
	return Key{Code: KeyChar, Char: c}
}

// Group returns a character-group wildcard key.
func Group(g CharGroup) Key {
	return Key{Code: KeyGroup, Group: g}
}

// IsChar returns true if this is a literal character key.
func (k Key) IsChar() bool {
	return k.Code == KeyChar
}

// IsGroup returns true if this is a character-group wildcard.
func (k Key) IsGroup() bool {
	return k.Code == KeyGroup
}

// IsFunctionKey returns true if this is a function key.
func (k Key) IsFunctionKey() bool {
	return k.Code == KeyF
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	switch k.Code {
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		return true
	}
	return false
}

// Matches compares keys with character-group semantics: a group equals
// any literal character its predicate accepts. Group against group
// requires the same group.
func (k Key) Matches(other Key) bool {
	switch {
	case k.Code == KeyGroup && other.Code == KeyChar:
		return k.Group.Matches(other.Char)
	case k.Code == KeyChar && other.Code == KeyGroup:
		return other.Group.Matches(k.Char)
	default:
		return k == other
	}
}

// String returns the canonical grammar token. The literal '@' is the one
// exception: it renders as "@", which Parse reads as an incomplete group,
// so that form is for display only.
func (k Key) String() string {
	switch k.Code {
	case KeyF:
		return "f" + strconv.Itoa(int(k.Fn))
	case KeyChar:
		return string(k.Char)
	case KeyGroup:
		return k.Group.String()
	default:
		return k.Code.String()
	}
}
