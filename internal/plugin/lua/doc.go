// Package lua runs binding scripts in a sandboxed gopher-lua state.
//
// Scripts see a "keymap" table with bind, parse and normalize, plus the
// base, string, table and math libraries. Anything that reaches the file
// system or loads code is removed. Importing this package registers the
// ".lua" format with the loader.
package lua
