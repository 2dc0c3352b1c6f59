package keymap

import (
	"github.com/dshills/keymap/internal/input/key"
)

// Converter turns a backend event into a node.
type Converter[E any] func(E) (key.Node, error)

// Resolve converts ev and looks it up. A conversion failure is reported as
// no match.
func Resolve[T, E any](c *Config[T], convert Converter[E], ev E) (T, bool) {
	n, err := convert(ev)
	if err != nil {
		var zero T
		return zero, false
	}
	return c.Get(n)
}

// ResolveSeq converts every event and looks up the sequence.
func ResolveSeq[T, E any](c *Config[T], convert Converter[E], evs []E) (T, bool) {
	nodes, ok := convertAll(convert, evs)
	if !ok {
		var zero T
		return zero, false
	}
	return c.GetSeq(nodes)
}

// ResolveBound is ResolveSeq with captured characters bound into the
// action.
func ResolveBound[T, E any](c *Config[T], convert Converter[E], evs ...E) (T, bool) {
	nodes, ok := convertAll(convert, evs)
	if !ok {
		var zero T
		return zero, false
	}
	return c.GetBoundSeq(nodes)
}

func convertAll[E any](convert Converter[E], evs []E) (key.Sequence, bool) {
	nodes := make(key.Sequence, 0, len(evs))
	for _, ev := range evs {
		n, err := convert(ev)
		if err != nil {
			return nil, false
		}
		nodes = append(nodes, n)
	}
	return nodes, true
}
