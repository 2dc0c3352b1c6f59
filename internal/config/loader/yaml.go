package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeYAML parses a YAML binding file, keeping mapping order.
func decodeYAML(source string, data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewFile(), nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return NewFile(), nil
	}

	v, err := yamlValue(root)
	if err != nil {
		return nil, &ParseError{Path: source, Line: root.Line, Column: root.Column, Message: err.Error(), Err: err}
	}
	fields, ok := v.([]field)
	if !ok {
		err := fmt.Errorf("%w: top level must be a mapping", ErrInvalidEntry)
		return nil, &ParseError{Path: source, Line: root.Line, Column: root.Column, Message: err.Error(), Err: err}
	}
	return buildFile(source, fields)
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		fields := make([]field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, field{name: n.Content[i].Value, value: v})
		}
		return fields, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported YAML node at line %d", ErrInvalidEntry, n.Line)
}
