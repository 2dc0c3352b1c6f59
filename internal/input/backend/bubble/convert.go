// Package bubble converts between Bubble Tea key messages and key nodes,
// and exposes bindings to the bubbles help component.
package bubble

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/keymap/internal/input/backend"
	"github.com/dshills/keymap/internal/input/key"
)

const backendName = "bubbletea"

// namedKeys lists every named key Bubble Tea reports, including the
// variants that fold modifiers into the key type.
var namedKeys = []struct {
	code key.Code
	mods key.Modifier
	kt   tea.KeyType
}{
	{key.KeyUp, key.ModNone, tea.KeyUp},
	{key.KeyUp, key.ModCtrl, tea.KeyCtrlUp},
	{key.KeyUp, key.ModShift, tea.KeyShiftUp},
	{key.KeyUp, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftUp},
	{key.KeyDown, key.ModNone, tea.KeyDown},
	{key.KeyDown, key.ModCtrl, tea.KeyCtrlDown},
	{key.KeyDown, key.ModShift, tea.KeyShiftDown},
	{key.KeyDown, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftDown},
	{key.KeyLeft, key.ModNone, tea.KeyLeft},
	{key.KeyLeft, key.ModCtrl, tea.KeyCtrlLeft},
	{key.KeyLeft, key.ModShift, tea.KeyShiftLeft},
	{key.KeyLeft, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftLeft},
	{key.KeyRight, key.ModNone, tea.KeyRight},
	{key.KeyRight, key.ModCtrl, tea.KeyCtrlRight},
	{key.KeyRight, key.ModShift, tea.KeyShiftRight},
	{key.KeyRight, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftRight},
	{key.KeyHome, key.ModNone, tea.KeyHome},
	{key.KeyHome, key.ModCtrl, tea.KeyCtrlHome},
	{key.KeyHome, key.ModShift, tea.KeyShiftHome},
	{key.KeyHome, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftHome},
	{key.KeyEnd, key.ModNone, tea.KeyEnd},
	{key.KeyEnd, key.ModCtrl, tea.KeyCtrlEnd},
	{key.KeyEnd, key.ModShift, tea.KeyShiftEnd},
	{key.KeyEnd, key.ModCtrl | key.ModShift, tea.KeyCtrlShiftEnd},
	{key.KeyPageUp, key.ModNone, tea.KeyPgUp},
	{key.KeyPageUp, key.ModCtrl, tea.KeyCtrlPgUp},
	{key.KeyPageDown, key.ModNone, tea.KeyPgDown},
	{key.KeyPageDown, key.ModCtrl, tea.KeyCtrlPgDown},
	{key.KeyDelete, key.ModNone, tea.KeyDelete},
	{key.KeyInsert, key.ModNone, tea.KeyInsert},
	{key.KeySpace, key.ModNone, tea.KeySpace},
	{key.KeyBackTab, key.ModNone, tea.KeyShiftTab},
	{key.KeyTab, key.ModNone, tea.KeyTab},
	{key.KeyEnter, key.ModNone, tea.KeyEnter},
	{key.KeyEsc, key.ModNone, tea.KeyEsc},
	{key.KeyBackspace, key.ModNone, tea.KeyBackspace},
}

var fnKeys = [...]tea.KeyType{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
	tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12,
}

// FromKeyMsg converts a Bubble Tea key message to a node.
//
// Alt is carried by the message flag; ctrl and shift come from the key
// type. Pasted text and multi-rune messages are not single keys.
func FromKeyMsg(msg tea.KeyMsg) (key.Node, error) {
	var alt key.Modifier
	if msg.Alt {
		alt = key.ModAlt
	}

	if msg.Type == tea.KeyRunes {
		if msg.Paste || len(msg.Runes) != 1 {
			return key.Node{}, backend.Unsupported(backendName, msg.String(), "not a single key")
		}
		r := msg.Runes[0]
		if r == ' ' {
			return key.NewNode(alt, key.Named(key.KeySpace)), nil
		}
		return key.NewNode(alt, key.Char(r)), nil
	}

	for _, nk := range namedKeys {
		if nk.kt == msg.Type {
			return key.NewNode(alt|nk.mods, key.Named(nk.code)), nil
		}
	}

	for i, kt := range fnKeys {
		if kt == msg.Type {
			return key.NewNode(alt, key.Fn(uint8(i+1))), nil
		}
	}

	switch {
	case msg.Type == tea.KeyCtrlAt:
		return key.NewNode(alt|key.ModCtrl, key.Named(key.KeySpace)), nil
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ:
		return key.NewNode(alt|key.ModCtrl, key.Char('a'+rune(msg.Type-tea.KeyCtrlA))), nil
	}

	return key.Node{}, backend.Unsupported(backendName, msg.String(), "")
}

// ToKeyMsg converts a node to a Bubble Tea key message. Bubble Tea has no
// Cmd modifier and only reports shift for a few navigation keys; such
// nodes fail, as do character groups.
func ToKeyMsg(n key.Node) (tea.KeyMsg, error) {
	if n.IsGroup() {
		return tea.KeyMsg{}, backend.Unsupported(backendName, n.String(), backend.GroupReason)
	}
	if n.Modifiers.HasCmd() {
		return tea.KeyMsg{}, backend.Unsupported(backendName, n.String(), "no cmd modifier")
	}

	msg := tea.KeyMsg{Alt: n.Modifiers.HasAlt()}
	mods := n.Modifiers.Without(key.ModAlt)

	switch n.Key.Code {
	case key.KeyChar:
		c := n.Key.Char
		switch {
		case mods == key.ModNone:
			msg.Type = tea.KeyRunes
			msg.Runes = []rune{c}
			return msg, nil
		case mods == key.ModCtrl && c >= 'a' && c <= 'z':
			msg.Type = tea.KeyCtrlA + tea.KeyType(c-'a')
			return msg, nil
		}
	case key.KeySpace:
		if mods == key.ModCtrl {
			msg.Type = tea.KeyCtrlAt
			return msg, nil
		}
	case key.KeyF:
		if mods == key.ModNone && n.Key.Fn >= 1 && int(n.Key.Fn) <= len(fnKeys) {
			msg.Type = fnKeys[n.Key.Fn-1]
			return msg, nil
		}
		return tea.KeyMsg{}, backend.Unsupported(backendName, n.String(), "")
	}

	for _, nk := range namedKeys {
		if nk.code == n.Key.Code && nk.mods == mods {
			msg.Type = nk.kt
			return msg, nil
		}
	}
	return tea.KeyMsg{}, backend.Unsupported(backendName, n.String(), "")
}
