// Package loader reads keymap binding files.
//
// A binding file maps action names to key expressions, optionally grouped
// by mode:
//
//	[normal]
//	"file.save" = { keys = ["ctrl-s", "space w"], description = "Save" }
//	"cursor.top" = "g g"
//
//	[insert]
//	"editor.complete" = ["ctrl-x ctrl-o"]
//
// Top-level entries outside a mode table belong to DefaultMode. TOML, YAML
// and JSON files are built in; other formats (Lua scripts) register a
// Decoder.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMode receives entries that are not inside a mode table.
const DefaultMode = "normal"

var (
	// ErrUnknownFormat is returned for a file extension with no decoder.
	ErrUnknownFormat = errors.New("unknown binding file format")

	// ErrInvalidEntry is returned for an entry that is neither a key
	// expression, a list of them, nor a table with a keys field.
	ErrInvalidEntry = errors.New("invalid binding entry")
)

// ParseError represents an error while parsing a binding file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Format names a binding file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatLua  Format = "lua"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".lua":
		return FormatLua, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Decoder turns file contents into a File. source names the input in
// error messages.
type Decoder func(source string, data []byte) (*File, error)

var (
	decodersMu sync.RWMutex
	decoders   = map[Format]Decoder{
		FormatTOML: decodeTOML,
		FormatYAML: decodeYAML,
		FormatJSON: decodeJSON,
	}
)

// RegisterDecoder installs or replaces the decoder for a format.
func RegisterDecoder(format Format, dec Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[format] = dec
}

func decoderFor(format Format) (Decoder, error) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return dec, nil
}

// LoadBytes decodes data in the given format.
func LoadBytes(format Format, data []byte) (*File, error) {
	return decode(format, "<"+string(format)+">", data)
}

func decode(format Format, source string, data []byte) (*File, error) {
	dec, err := decoderFor(format)
	if err != nil {
		return nil, err
	}
	f, err := dec(source, data)
	if err != nil {
		return nil, err
	}
	f.Path = source
	return f, nil
}

// Load reads a binding file from the OS file system.
func Load(path string) (*File, error) {
	return LoadFS(DefaultFS(), path)
}

// LoadFS reads a binding file through fsys.
func LoadFS(fsys FileSystem, path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binding file %s: %w", path, err)
	}
	return decode(format, path, data)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}
