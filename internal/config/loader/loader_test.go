package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymap/internal/input/keymap"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

const tomlBindings = `
"app.quit" = "ctrl-q"

[normal]
"file.save" = { keys = ["ctrl-s", "space w"], description = "Save" }
"cursor.top" = ["g g"]

[insert]
"editor.complete" = { keys = "ctrl-x ctrl-o" }
`

const yamlBindings = `
app.quit: ctrl-q
normal:
  file.save:
    keys: [ctrl-s, space w]
    description: Save
  cursor.top: [g g]
insert:
  editor.complete:
    keys: ctrl-x ctrl-o
`

const jsonBindings = `{
  "app.quit": "ctrl-q",
  "normal": {
    "file.save": {"keys": ["ctrl-s", "space w"], "description": "Save"},
    "cursor.top": ["g g"]
  },
  "insert": {
    "editor.complete": {"keys": "ctrl-x ctrl-o"}
  }
}`

func assertSample(t *testing.T, f *File) {
	t.Helper()

	normal := f.Entries("normal")
	byName := make(map[string]keymap.Item, len(normal))
	for _, e := range normal {
		byName[e.Name] = e.Item
	}
	require.Len(t, byName, 3)
	assert.Equal(t, keymap.NewItem("Save", "ctrl-s", "space w"), byName["file.save"])
	assert.Equal(t, []string{"g g"}, byName["cursor.top"].Keys)
	assert.Equal(t, []string{"ctrl-q"}, byName["app.quit"].Keys)

	insert := f.Entries("insert")
	require.Len(t, insert, 1)
	assert.Equal(t, "editor.complete", insert[0].Name)
	assert.Equal(t, []string{"ctrl-x ctrl-o"}, insert[0].Keys)
	assert.Equal(t, 4, f.Len())
}

func TestLoadBytesFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, tomlBindings},
		{FormatYAML, yamlBindings},
		{FormatJSON, jsonBindings},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := LoadBytes(tt.format, []byte(tt.data))
			require.NoError(t, err)
			assertSample(t, f)
		})
	}
}

func TestOrderPreserved(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data := yamlBindings
			if format == FormatJSON {
				data = jsonBindings
			}
			f, err := LoadBytes(format, []byte(data))
			require.NoError(t, err)

			assert.Equal(t, []string{"normal", "insert"}, f.Order)
			var names []string
			for _, e := range f.Entries("normal") {
				names = append(names, e.Name)
			}
			assert.Equal(t, []string{"app.quit", "file.save", "cursor.top"}, names)
		})
	}
}

func TestTOMLSortedByName(t *testing.T) {
	f, err := LoadBytes(FormatTOML, []byte(tomlBindings))
	require.NoError(t, err)

	var names []string
	for _, e := range f.Entries("normal") {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"app.quit", "cursor.top", "file.save"}, names)
}

func TestInvalidEntries(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"number", FormatTOML, `"app.quit" = 3`},
		{"number in list", FormatJSON, `{"normal": {"a": ["x", 1]}}`},
		{"unknown field", FormatYAML, "normal:\n  a:\n    keys: x\n    when: y\n"},
		{"keys wrong type", FormatJSON, `{"a": {"keys": true}}`},
		{"description wrong type", FormatTOML, "[normal.a]\nkeys = \"x\"\ndescription = 1\n"},
		{"top level list", FormatYAML, "- a\n- b\n"},
		{"top level array", FormatJSON, `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes(tt.format, []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEntry)

			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	_, err := LoadBytes(FormatTOML, []byte("[normal\na = 1"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Positive(t, perr.Line)

	_, err = LoadBytes(FormatYAML, []byte("a: [b"))
	require.ErrorAs(t, err, &perr)

	_, err = LoadBytes(FormatJSON, []byte(`{"a": `))
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "malformed JSON")
}

func TestEmptyDocuments(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		f, err := LoadBytes(format, nil)
		require.NoError(t, err, format)
		assert.Zero(t, f.Len())
	}
	f, err := LoadBytes(FormatJSON, []byte("{}"))
	require.NoError(t, err)
	assert.Zero(t, f.Len())
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.toml":    FormatTOML,
		"a.YAML":    FormatYAML,
		"dir/b.yml": FormatYAML,
		"c.json":    FormatJSON,
		"init.lua":  FormatLua,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("keys.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFS(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keys.toml", tomlBindings)

	f, err := LoadFS(memfs, "/keys.toml")
	require.NoError(t, err)
	assert.Equal(t, "/keys.toml", f.Path)
	assertSample(t, f)

	_, err = LoadFS(memfs, "/missing.toml")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonBindings), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assertSample(t, f)
}

func TestUnregisteredFormat(t *testing.T) {
	_, err := LoadBytes(Format("ini"), []byte("a=b"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegisterDecoder(t *testing.T) {
	const custom Format = "custom-test"
	RegisterDecoder(custom, func(source string, data []byte) (*File, error) {
		f := NewFile()
		f.Add("normal", RawEntry{Name: string(data), Item: keymap.NewItem("", "x")})
		return f, nil
	})

	f, err := LoadBytes(custom, []byte("act"))
	require.NoError(t, err)
	assert.Equal(t, "act", f.Entries("normal")[0].Name)
}

func TestFileAddReplaces(t *testing.T) {
	f := NewFile()
	f.Add("normal", RawEntry{Name: "a", Item: keymap.NewItem("", "x")})
	f.Add("normal", RawEntry{Name: "a", Item: keymap.NewItem("", "y")})
	f.Add("insert", RawEntry{Name: "b", Item: keymap.NewItem("", "z")})

	require.Len(t, f.Entries("normal"), 1)
	assert.Equal(t, []string{"y"}, f.Entries("normal")[0].Keys)
	assert.Equal(t, []string{"normal", "insert"}, f.Order)
}
