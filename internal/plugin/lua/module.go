package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
)

// ModuleName is the global under which the module is installed.
const ModuleName = "keymap"

// Module exposes key parsing to scripts and collects the bindings they
// declare:
//
//	keymap.bind("normal", "file.save", {"ctrl-s", "space w"}, "Save")
//	keymap.bind("insert", "editor.complete", "ctrl-x ctrl-o")
//	local n = keymap.parse("shift-ctrl-a")   -- {modifiers={"ctrl","shift"}, key="a", string="ctrl-shift-a"}
//	local s = keymap.normalize("shift-ctrl-a g")
type Module struct {
	file *loader.File
}

// NewModule creates a module collecting into a new file.
func NewModule() *Module {
	return &Module{file: loader.NewFile()}
}

// File returns the bindings declared so far.
func (m *Module) File() *loader.File {
	return m.file
}

// Install registers the module in s.
func (m *Module) Install(s *State) {
	s.Preload(ModuleName, map[string]lua.LGFunction{
		"bind":      m.bind,
		"parse":     m.parse,
		"normalize": m.normalize,
	}, map[string]lua.LValue{
		"DEFAULT_MODE": lua.LString(loader.DefaultMode),
		"NORMAL":       lua.LString(keymap.ModeNormal),
		"INSERT":       lua.LString(keymap.ModeInsert),
		"VISUAL":       lua.LString(keymap.ModeVisual),
		"COMMAND":      lua.LString(keymap.ModeCommand),
	})
}

// bind(mode, action, keys, description?) -> nil
// keys is an expression or a list of expressions. Every expression is
// validated so errors point at the script line.
func (m *Module) bind(L *lua.LState) int {
	mode := L.CheckString(1)
	action := L.CheckString(2)
	desc := L.OptString(4, "")

	if strings.TrimSpace(mode) == "" {
		L.ArgError(1, "mode cannot be empty")
		return 0
	}
	if strings.TrimSpace(action) == "" {
		L.ArgError(2, "action cannot be empty")
		return 0
	}

	var keys []string
	switch v := L.Get(3).(type) {
	case lua.LString:
		keys = []string{string(v)}
	case *lua.LTable:
		n := v.Len()
		for i := 1; i <= n; i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				L.ArgError(3, "keys must be strings")
				return 0
			}
			keys = append(keys, string(s))
		}
	default:
		L.ArgError(3, "keys must be a string or a list of strings")
		return 0
	}
	if len(keys) == 0 {
		L.ArgError(3, "keys cannot be empty")
		return 0
	}

	for _, expr := range keys {
		if strings.TrimSpace(expr) == "" {
			L.ArgError(3, keymap.ErrEmptyBinding.Error())
			return 0
		}
		if _, err := key.ParseSeq(expr); err != nil {
			L.ArgError(3, err.Error())
			return 0
		}
	}

	m.file.Add(mode, loader.RawEntry{Name: action, Item: keymap.NewItem(desc, keys...)})
	return 0
}

// parse(expr) -> table | nil, err
func (m *Module) parse(L *lua.LState) int {
	n, err := key.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	mods := L.NewTable()
	for _, mod := range []key.Modifier{key.ModAlt, key.ModCmd, key.ModCtrl, key.ModShift} {
		if n.Modifiers.Has(mod) {
			mods.Append(lua.LString(mod.Name()))
		}
	}

	tbl := L.NewTable()
	L.SetField(tbl, "modifiers", mods)
	L.SetField(tbl, "key", lua.LString(n.Key.String()))
	L.SetField(tbl, "string", lua.LString(n.String()))
	L.SetField(tbl, "group", lua.LBool(n.IsGroup()))
	L.Push(tbl)
	return 1
}

// normalize(expr) -> string | nil, err
func (m *Module) normalize(L *lua.LState) int {
	s, err := key.NormalizeSeq(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(s))
	return 1
}
