package lua

import (
	"fmt"

	"github.com/dshills/keymap/internal/config/loader"
)

func init() {
	loader.RegisterDecoder(loader.FormatLua, func(source string, data []byte) (*loader.File, error) {
		return RunSource(source, string(data))
	})
}

// RunScript evaluates a binding script from disk.
func RunScript(path string, opts ...StateOption) (*loader.File, error) {
	return run(path, func(s *State) error { return s.DoFile(path) }, opts...)
}

// RunSource evaluates binding script source. name appears in errors.
func RunSource(name, source string, opts ...StateOption) (*loader.File, error) {
	return run(name, func(s *State) error { return s.DoString(source) }, opts...)
}

func run(name string, exec func(*State) error, opts ...StateOption) (*loader.File, error) {
	s := NewState(opts...)
	defer s.Close()

	m := NewModule()
	m.Install(s)

	if err := exec(s); err != nil {
		return nil, &loader.ParseError{Path: name, Message: err.Error(), Err: fmt.Errorf("running script: %w", err)}
	}
	f := m.File()
	f.Path = name
	return f, nil
}
