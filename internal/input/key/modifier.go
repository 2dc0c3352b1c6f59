package key

import "strings"

// Modifier represents keyboard modifier keys as a bitmask.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Modifier = 1 << (iota - 1)

	// ModCmd indicates the Cmd key (Meta, Super, Win).
	ModCmd

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModShift indicates the Shift key.
	ModShift
)

// modMask covers every meaningful modifier bit.
const modMask = ModAlt | ModCmd | ModCtrl | ModShift

// modifierOrder is the canonical rendering order.
var modifierOrder = [...]Modifier{ModAlt, ModCmd, ModCtrl, ModShift}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasCmd returns true if Cmd is pressed.
func (m Modifier) HasCmd() bool {
	return m.Has(ModCmd)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return (m | mod) & modMask
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m&modMask == ModNone
}

// Name returns the grammar token of a single modifier, or "" for
// combinations and ModNone.
func (m Modifier) Name() string {
	switch m {
	case ModAlt:
		return "alt"
	case ModCmd:
		return "cmd"
	case ModCtrl:
		return "ctrl"
	case ModShift:
		return "shift"
	default:
		return ""
	}
}

// String returns the modifiers in canonical order joined by "-",
// e.g. "alt-ctrl". ModNone renders as "".
func (m Modifier) String() string {
	if m.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, len(modifierOrder))
	for _, mod := range modifierOrder {
		if m.Has(mod) {
			parts = append(parts, mod.Name())
		}
	}
	return strings.Join(parts, string(Separator))
}

// ModifierFromName returns the Modifier for a grammar token.
// Names are lowercase; anything else returns ModNone.
func ModifierFromName(name string) Modifier {
	switch name {
	case "alt":
		return ModAlt
	case "cmd":
		return ModCmd
	case "ctrl":
		return ModCtrl
	case "shift":
		return ModShift
	default:
		return ModNone
	}
}
