package loader

import (
	"fmt"
	"slices"

	"github.com/dshills/keymap/internal/input/keymap"
)

// RawEntry is one action with its key expressions, not yet compiled.
type RawEntry struct {
	Name string
	keymap.Item
}

// File is a decoded binding file.
type File struct {
	// Path is the file the bindings came from.
	Path string

	// Modes maps a mode name to its entries in file order.
	Modes map[string][]RawEntry

	// Order lists mode names in the order they first appeared.
	Order []string
}

// NewFile creates an empty file.
func NewFile() *File {
	return &File{Modes: make(map[string][]RawEntry)}
}

// Add appends an entry to mode. A second entry for the same action in the
// same mode replaces the first.
func (f *File) Add(mode string, e RawEntry) {
	if f.Modes == nil {
		f.Modes = make(map[string][]RawEntry)
	}
	entries, ok := f.Modes[mode]
	if !ok {
		f.Order = append(f.Order, mode)
	}
	for i := range entries {
		if entries[i].Name == e.Name {
			entries[i].Item = e.Item.Clone()
			return
		}
	}
	f.Modes[mode] = append(entries, RawEntry{Name: e.Name, Item: e.Item.Clone()})
}

// Entries returns the entries of a mode.
func (f *File) Entries(mode string) []RawEntry {
	return slices.Clone(f.Modes[mode])
}

// Len returns the number of entries across all modes.
func (f *File) Len() int {
	n := 0
	for _, entries := range f.Modes {
		n += len(entries)
	}
	return n
}

// FromEntries builds a file from compiled-in entries, e.g. the defaults.
func FromEntries(modes map[string][]keymap.Entry[string], order ...string) *File {
	f := NewFile()
	if len(order) == 0 {
		for mode := range modes {
			order = append(order, mode)
		}
		slices.Sort(order)
	}
	for _, mode := range order {
		for _, e := range modes[mode] {
			f.Add(mode, RawEntry{Name: e.Action, Item: e.Item})
		}
	}
	return f
}

// field is one key of a decoded mapping. Every format is reduced to a
// list of fields so that ordering is handled once.
type field struct {
	name  string
	value any // string, []any, []field, or another scalar
}

func lookup(fields []field, name string) (any, bool) {
	for _, f := range fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

// isEntryTable reports whether a mapping describes an entry rather than
// a mode.
func isEntryTable(fields []field) bool {
	_, ok := lookup(fields, "keys")
	return ok
}

func buildFile(source string, root []field) (*File, error) {
	f := NewFile()
	for _, top := range root {
		if tbl, ok := top.value.([]field); ok && !isEntryTable(tbl) {
			if len(tbl) == 0 {
				if _, seen := f.Modes[top.name]; !seen {
					f.Order = append(f.Order, top.name)
					f.Modes[top.name] = nil
				}
			}
			for _, e := range tbl {
				item, err := decodeItem(e.value)
				if err != nil {
					return nil, entryError(source, top.name, e.name, err)
				}
				f.Add(top.name, RawEntry{Name: e.name, Item: item})
			}
			continue
		}

		item, err := decodeItem(top.value)
		if err != nil {
			return nil, entryError(source, DefaultMode, top.name, err)
		}
		f.Add(DefaultMode, RawEntry{Name: top.name, Item: item})
	}
	return f, nil
}

func entryError(source, mode, name string, err error) error {
	return &ParseError{
		Path:    source,
		Message: fmt.Sprintf("%s.%s: %v", mode, name, err),
		Err:     err,
	}
}

// decodeItem accepts "keys", ["keys", ...] or {keys = ..., description = ...}.
func decodeItem(v any) (keymap.Item, error) {
	switch v := v.(type) {
	case string:
		return keymap.NewItem("", v), nil
	case []any:
		keys, err := decodeKeys(v)
		if err != nil {
			return keymap.Item{}, err
		}
		return keymap.NewItem("", keys...), nil
	case []field:
		var item keymap.Item
		for _, f := range v {
			switch f.name {
			case "keys":
				switch kv := f.value.(type) {
				case string:
					item.Keys = []string{kv}
				case []any:
					keys, err := decodeKeys(kv)
					if err != nil {
						return keymap.Item{}, err
					}
					item.Keys = keys
				default:
					return keymap.Item{}, fmt.Errorf("%w: keys must be a string or a list, got %T", ErrInvalidEntry, f.value)
				}
			case "description":
				s, ok := f.value.(string)
				if !ok {
					return keymap.Item{}, fmt.Errorf("%w: description must be a string, got %T", ErrInvalidEntry, f.value)
				}
				item.Description = s
			default:
				return keymap.Item{}, fmt.Errorf("%w: unknown field %q", ErrInvalidEntry, f.name)
			}
		}
		return item, nil
	}
	return keymap.Item{}, fmt.Errorf("%w: unexpected %T", ErrInvalidEntry, v)
}

func decodeKeys(list []any) ([]string, error) {
	keys := make([]string, 0, len(list))
	for _, k := range list {
		s, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key expression must be a string, got %T", ErrInvalidEntry, k)
		}
		keys = append(keys, s)
	}
	return keys, nil
}
