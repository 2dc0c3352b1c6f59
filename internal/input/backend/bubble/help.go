package bubble

import (
	"fmt"
	"strings"

	bkey "github.com/charmbracelet/bubbles/key"

	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
)

// Binding converts an item to a bubbles key binding.
//
// Keys are the Bubble Tea names of the single-node expressions that map to
// a key message, so key.Matches works against incoming messages. Sequences
// and groups have no such name; when nothing converts, the raw expressions
// are used so the help view still lists them.
func Binding(item keymap.Item) bkey.Binding {
	var keys []string
	for _, expr := range item.Keys {
		seq, err := key.ParseSeq(expr)
		if err != nil || seq.Len() != 1 {
			continue
		}
		msg, err := ToKeyMsg(seq[0])
		if err != nil {
			continue
		}
		keys = append(keys, msg.String())
	}
	if len(keys) == 0 {
		keys = append(keys, item.Keys...)
	}

	return bkey.NewBinding(
		bkey.WithKeys(keys...),
		bkey.WithHelp(strings.Join(item.Keys, "/"), item.Description),
	)
}

// HelpBindings converts every entry to a bubbles binding.
func HelpBindings[T any](entries []keymap.Entry[T]) []bkey.Binding {
	out := make([]bkey.Binding, 0, len(entries))
	for _, e := range entries {
		out = append(out, Binding(e.Item))
	}
	return out
}

// Help adapts a keymap config to the bubbles help.KeyMap interface.
type Help struct {
	bindings []bkey.Binding
	columns  int
}

// NewHelp builds help for a config. columns controls how FullHelp splits
// the bindings; values below one mean a single column.
func NewHelp[T any](c *keymap.Config[T], columns int) *Help {
	if columns < 1 {
		columns = 1
	}
	return &Help{bindings: HelpBindings(c.Entries()), columns: columns}
}

// Bindings returns the converted bindings.
func (h *Help) Bindings() []bkey.Binding {
	return h.bindings
}

// ShortHelp implements help.KeyMap.
func (h *Help) ShortHelp() []bkey.Binding {
	return h.bindings
}

// FullHelp implements help.KeyMap.
func (h *Help) FullHelp() [][]bkey.Binding {
	if len(h.bindings) == 0 {
		return nil
	}
	per := (len(h.bindings) + h.columns - 1) / h.columns
	var cols [][]bkey.Binding
	for i := 0; i < len(h.bindings); i += per {
		end := min(i+per, len(h.bindings))
		cols = append(cols, h.bindings[i:end])
	}
	return cols
}

// String lists the bindings one per line, mainly for debugging.
func (h *Help) String() string {
	var sb strings.Builder
	for _, b := range h.bindings {
		fmt.Fprintf(&sb, "%s\t%s\n", b.Help().Key, b.Help().Desc)
	}
	return sb.String()
}
