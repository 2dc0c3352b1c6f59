package loader

import (
	"errors"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOML parses a TOML binding file. TOML tables are unordered once
// decoded, so entries come out sorted by name.
func decodeTOML(source string, data []byte) (*File, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return buildFile(source, tomlFields(doc))
}

func tomlFields(m map[string]any) []field {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		fields = append(fields, field{name: name, value: tomlValue(m[name])})
	}
	return fields
}

func tomlValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return tomlFields(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = tomlValue(e)
		}
		return out
	}
	return v
}
