package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Export encodes a file in the given format. Every entry is written in
// table form so descriptions survive. Lua files cannot be exported.
func Export(format Format, f *File) ([]byte, error) {
	switch format {
	case FormatTOML:
		return exportTOML(f)
	case FormatYAML:
		return exportYAML(f)
	case FormatJSON:
		return exportJSON(f)
	}
	return nil, fmt.Errorf("%w: cannot export %q", ErrUnknownFormat, format)
}

type exportItem struct {
	Keys        []string `toml:"keys"`
	Description string   `toml:"description,omitempty"`
}

func exportTOML(f *File) ([]byte, error) {
	doc := make(map[string]map[string]exportItem, len(f.Modes))
	for mode, entries := range f.Modes {
		tbl := make(map[string]exportItem, len(entries))
		for _, e := range entries {
			tbl[e.Name] = exportItem{Keys: e.Keys, Description: e.Description}
		}
		doc[mode] = tbl
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetTablesInline(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func exportYAML(f *File) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, mode := range f.Order {
		modeNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range f.Modes[mode] {
			var item yaml.Node
			if err := item.Encode(e.Item); err != nil {
				return nil, fmt.Errorf("encoding %s.%s: %w", mode, e.Name, err)
			}
			modeNode.Content = append(modeNode.Content, yamlString(e.Name), &item)
		}
		root.Content = append(root.Content, yamlString(mode), modeNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func exportJSON(f *File) ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, mode := range f.Order {
		base := escapePath(mode)
		if len(f.Modes[mode]) == 0 {
			if out, err = sjson.SetRawBytes(out, base, []byte("{}")); err != nil {
				return nil, fmt.Errorf("encoding JSON: %w", err)
			}
			continue
		}
		for _, e := range f.Modes[mode] {
			path := base + "." + escapePath(e.Name)
			keys := e.Keys
			if keys == nil {
				keys = []string{}
			}
			if out, err = sjson.SetBytes(out, path+".keys", keys); err != nil {
				return nil, fmt.Errorf("encoding JSON: %w", err)
			}
			if e.Description != "" {
				if out, err = sjson.SetBytes(out, path+".description", e.Description); err != nil {
					return nil, fmt.Errorf("encoding JSON: %w", err)
				}
			}
		}
	}
	return pretty.Pretty(out), nil
}

// escapePath quotes the characters sjson treats as path syntax.
func escapePath(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
