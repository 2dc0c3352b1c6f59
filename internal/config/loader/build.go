package loader

import (
	"fmt"

	"github.com/dshills/keymap/internal/input/keymap"
)

// Resolver maps an action name from a file to an action value.
type Resolver[T any] func(name string) (T, error)

// StringAction is the Resolver for string actions.
func StringAction(name string) (string, error) {
	return name, nil
}

// Build compiles a mode of f layered over defaults. Entries that name a
// default action replace its keys; unknown actions are appended. A nil f
// compiles the defaults alone.
func Build[T comparable](f *File, mode string, defaults []keymap.Entry[T], resolve Resolver[T], opts ...keymap.MatcherOption) (*keymap.Config[T], error) {
	var overrides []keymap.Entry[T]
	if f != nil {
		for _, raw := range f.Modes[mode] {
			action, err := resolve(raw.Name)
			if err != nil {
				return nil, fmt.Errorf("mode %s: action %q: %w", mode, raw.Name, err)
			}
			overrides = append(overrides, keymap.Entry[T]{Action: action, Item: raw.Item})
		}
	}

	cfg, err := keymap.NewDerivedConfig(defaults, overrides, opts...)
	if err != nil {
		return nil, fmt.Errorf("mode %s: %w", mode, err)
	}
	return cfg, nil
}

// BuildRegistry compiles every mode that appears in either defaults or f
// and installs the result in a new registry.
func BuildRegistry(f *File, defaults map[string][]keymap.Entry[string], opts ...keymap.MatcherOption) (*keymap.Registry[string], error) {
	modes, err := BuildModes(f, defaults, opts...)
	if err != nil {
		return nil, err
	}
	r := keymap.NewRegistry[string]()
	r.Swap(modes)
	return r, nil
}

// BuildModes compiles every mode into a map suitable for Registry.Swap.
func BuildModes(f *File, defaults map[string][]keymap.Entry[string], opts ...keymap.MatcherOption) (map[string]*keymap.Config[string], error) {
	names := make(map[string]struct{}, len(defaults))
	for mode := range defaults {
		names[mode] = struct{}{}
	}
	if f != nil {
		for mode := range f.Modes {
			names[mode] = struct{}{}
		}
	}

	out := make(map[string]*keymap.Config[string], len(names))
	for mode := range names {
		cfg, err := Build(f, mode, defaults[mode], StringAction, opts...)
		if err != nil {
			return nil, err
		}
		out[mode] = cfg
	}
	return out, nil
}
