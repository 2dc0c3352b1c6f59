package keymap

import (
	"slices"
)

// Item describes the key expressions bound to an action.
type Item struct {
	// Keys are key expressions such as "ctrl-s" or "g g". Every expression
	// triggers the same action.
	Keys []string `json:"keys" yaml:"keys" toml:"keys"`

	// Description documents the binding for help screens.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// NewItem creates an item from a description and key expressions.
func NewItem(description string, keys ...string) Item {
	return Item{Keys: keys, Description: description}
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	return Item{Keys: slices.Clone(i.Keys), Description: i.Description}
}

// Entry pairs an action with its item.
type Entry[T any] struct {
	Action T
	Item
}

// NewEntry creates an entry.
func NewEntry[T any](action T, description string, keys ...string) Entry[T] {
	return Entry[T]{Action: action, Item: NewItem(description, keys...)}
}
