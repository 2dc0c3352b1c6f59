// Package terminal converts between tcell key events and key nodes.
package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymap/internal/input/backend"
	"github.com/dshills/keymap/internal/input/key"
)

const backendName = "tcell"

// namedKeys pairs named key codes with tcell keys. A slice rather than a
// map because several tcell constants alias the control keys.
var namedKeys = []struct {
	code key.Code
	tk   tcell.Key
}{
	{key.KeyBackTab, tcell.KeyBacktab},
	{key.KeyBackspace, tcell.KeyBackspace2},
	{key.KeyBackspace, tcell.KeyBackspace},
	{key.KeyDelete, tcell.KeyDelete},
	{key.KeyDown, tcell.KeyDown},
	{key.KeyEnd, tcell.KeyEnd},
	{key.KeyEnter, tcell.KeyEnter},
	{key.KeyEsc, tcell.KeyEscape},
	{key.KeyHome, tcell.KeyHome},
	{key.KeyInsert, tcell.KeyInsert},
	{key.KeyLeft, tcell.KeyLeft},
	{key.KeyPageDown, tcell.KeyPgDn},
	{key.KeyPageUp, tcell.KeyPgUp},
	{key.KeyRight, tcell.KeyRight},
	{key.KeyTab, tcell.KeyTab},
	{key.KeyUp, tcell.KeyUp},
}

// FromEvent converts a tcell key event to a node.
//
// A space rune becomes the named key "space". Legacy control codes
// (KeyCtrlA through KeyCtrlZ) become ctrl plus the lowercase letter.
func FromEvent(ev *tcell.EventKey) (key.Node, error) {
	if ev == nil {
		return key.Node{}, backend.Unsupported(backendName, "<nil>", "no event")
	}

	mods := fromModMask(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return key.NewNode(mods, key.Named(key.KeySpace)), nil
		}
		return key.NewNode(mods, key.Char(r)), nil
	}

	for _, nk := range namedKeys {
		if nk.tk == k {
			return key.NewNode(mods, key.Named(nk.code)), nil
		}
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF1+key.MaxFn-1 {
		return key.NewNode(mods, key.Fn(uint8(k-tcell.KeyF1)+1)), nil
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewNode(mods.With(key.ModCtrl), key.Char('a'+rune(k-tcell.KeyCtrlA))), nil
	}

	return key.Node{}, backend.Unsupported(backendName, ev.Name(), "")
}

// ToEvent converts a node to a tcell key event. Character groups and f0
// have no tcell equivalent.
func ToEvent(n key.Node) (*tcell.EventKey, error) {
	mods := toModMask(n.Modifiers)

	switch n.Key.Code {
	case key.KeyGroup:
		return nil, backend.Unsupported(backendName, n.String(), backend.GroupReason)
	case key.KeyChar:
		return tcell.NewEventKey(tcell.KeyRune, n.Key.Char, mods), nil
	case key.KeySpace:
		return tcell.NewEventKey(tcell.KeyRune, ' ', mods), nil
	case key.KeyF:
		if n.Key.Fn == 0 || n.Key.Fn > key.MaxFn {
			return nil, backend.Unsupported(backendName, n.String(), "")
		}
		return tcell.NewEventKey(tcell.KeyF1+tcell.Key(n.Key.Fn-1), 0, mods), nil
	}

	for _, nk := range namedKeys {
		if nk.code == n.Key.Code {
			return tcell.NewEventKey(nk.tk, 0, mods), nil
		}
	}
	return nil, backend.Unsupported(backendName, n.String(), "")
}

// Parse parses a key expression straight into a tcell event.
func Parse(s string) (*tcell.EventKey, error) {
	n, err := key.Parse(s)
	if err != nil {
		return nil, err
	}
	return ToEvent(n)
}

func fromModMask(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModCmd
	}
	return result
}

func toModMask(m key.Modifier) tcell.ModMask {
	var result tcell.ModMask
	if m.HasShift() {
		result |= tcell.ModShift
	}
	if m.HasCtrl() {
		result |= tcell.ModCtrl
	}
	if m.HasAlt() {
		result |= tcell.ModAlt
	}
	if m.HasCmd() {
		result |= tcell.ModMeta
	}
	return result
}
