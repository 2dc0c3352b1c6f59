package keymap

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dshills/keymap/internal/input/key"
)

// action is a test action carrying an optional captured character.
type action struct {
	Name string
	Char rune
}

func (a action) Bind(ch rune) action {
	a.Char = ch
	return a
}

func testEntries() []Entry[action] {
	return []Entry[action]{
		NewEntry(action{Name: "create"}, "Create an item", "c"),
		NewEntry(action{Name: "delete"}, "Delete an item", "d", "d e", "@digit"),
		NewEntry(action{Name: "jump"}, "Jump to mark", "' @lower", "enter"),
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(testEntries())
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cfg.Len())
	}

	tests := []struct {
		input string
		want  string
	}{
		{"c", "create"},
		{"d", "delete"},
		{"d e", "delete"},
		{"5", "delete"},
		{"' q", "jump"},
		{"enter", "jump"},
	}

	for _, tt := range tests {
		got, ok := cfg.GetSeq(key.MustParseSeq(tt.input))
		if !ok || got.Name != tt.want {
			t.Errorf("GetSeq(%q) = (%v, %v), want %s", tt.input, got, ok, tt.want)
		}
	}

	if _, ok := cfg.Get(key.MustParse("z")); ok {
		t.Error("Get(z) should not match")
	}
}

func TestNewConfigInvalidKeys(t *testing.T) {
	tests := []struct {
		keys    string
		wantErr error
	}{
		{"ctrl-", key.ErrInvalidSpec},
		{"f13", key.ErrInvalidSpec},
		{"g delta", key.ErrInvalidSpec},
		{"", ErrEmptyBinding},
		{"   ", ErrEmptyBinding},
	}

	for _, tt := range tests {
		_, err := NewConfig([]Entry[string]{NewEntry("save", "", "ctrl-s", tt.keys)})
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("NewConfig(%q) error = %v, want %v", tt.keys, err, tt.wantErr)
			continue
		}
		var berr *BindingError
		if !errors.As(err, &berr) {
			t.Errorf("NewConfig(%q) error type = %T, want *BindingError", tt.keys, err)
			continue
		}
		if berr.Action != "save" || berr.Keys != tt.keys {
			t.Errorf("BindingError = {%q, %q}, want {save, %q}", berr.Action, berr.Keys, tt.keys)
		}
	}
}

func TestMustConfigPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustConfig should panic on invalid keys")
		}
	}()
	MustConfig([]Entry[string]{NewEntry("bad", "", "@word")})
}

func TestConfigLaterEntryWins(t *testing.T) {
	cfg := MustConfig([]Entry[string]{
		NewEntry("first", "", "x"),
		NewEntry("second", "", "x"),
	})

	if got, _ := cfg.Get(key.MustParse("x")); got != "second" {
		t.Errorf("Get(x) = %q, want second", got)
	}
}

func TestConfigGetItem(t *testing.T) {
	cfg := MustConfig(testEntries())

	act, item, ok := cfg.GetItem(key.MustParse("c"))
	if !ok {
		t.Fatal("GetItem(c) should match")
	}
	if act.Name != "create" || item.Description != "Create an item" {
		t.Errorf("GetItem(c) = (%v, %+v)", act, item)
	}

	act, item, ok = cfg.GetItemByString("d e")
	if !ok || act.Name != "delete" || len(item.Keys) != 3 {
		t.Errorf("GetItemByString(d e) = (%v, %+v, %v)", act, item, ok)
	}

	if _, _, ok := cfg.GetItemByString("ctrl-"); ok {
		t.Error("GetItemByString with invalid input should not match")
	}
}

func TestConfigGetBound(t *testing.T) {
	cfg := MustConfig(testEntries())

	tests := []struct {
		input    string
		wantName string
		wantChar rune
	}{
		{"7", "delete", '7'},
		{"d", "delete", 0},
		{"' x", "jump", 'x'},
		{"enter", "jump", 0},
		{"c", "create", 0},
	}

	for _, tt := range tests {
		got, ok := cfg.GetBoundSeq(key.MustParseSeq(tt.input))
		if !ok {
			t.Errorf("GetBoundSeq(%q) did not match", tt.input)
			continue
		}
		if got.Name != tt.wantName || got.Char != tt.wantChar {
			t.Errorf("GetBoundSeq(%q) = %+v, want {%s %q}", tt.input, got, tt.wantName, tt.wantChar)
		}
	}

	got, ok := cfg.GetBound(key.MustParse("3"))
	if !ok || got.Char != '3' {
		t.Errorf("GetBound(3) = (%+v, %v)", got, ok)
	}

	// Unbound lookups leave the stored action untouched.
	plain, _ := cfg.Get(key.MustParse("3"))
	if plain.Char != 0 {
		t.Errorf("Get(3).Char = %q, want 0", plain.Char)
	}
}

func TestConfigGetBoundWithoutBinder(t *testing.T) {
	cfg := MustConfig([]Entry[string]{NewEntry("count", "", "@digit")})

	got, ok := cfg.GetBound(key.MustParse("4"))
	if !ok || got != "count" {
		t.Errorf("GetBound(4) = (%q, %v), want count", got, ok)
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := MustConfig(testEntries())

	res, ok := cfg.Resolve(key.MustParseSeq("' m"))
	if !ok {
		t.Fatal("Resolve(' m) should match")
	}
	if res.Action.Name != "jump" || res.Action.Char != 'm' {
		t.Errorf("Action = %+v", res.Action)
	}
	if !res.HasCapture || res.Captured != 'm' {
		t.Errorf("Captured = (%q, %v), want ('m', true)", res.Captured, res.HasCapture)
	}
	if res.Pattern.String() != "' @lower" {
		t.Errorf("Pattern = %q", res.Pattern)
	}

	res, ok = cfg.Resolve(key.MustParseSeq("enter"))
	if !ok || res.HasCapture {
		t.Errorf("Resolve(enter) = (%+v, %v), want match without capture", res, ok)
	}
}

func TestConfigEntriesAreCopies(t *testing.T) {
	entries := testEntries()
	cfg := MustConfig(entries)

	entries[0].Keys[0] = "z"
	if _, ok := cfg.Get(key.MustParse("c")); !ok {
		t.Error("mutating input entries should not affect the config")
	}

	out := cfg.Entries()
	out[0].Keys[0] = "y"
	if got := cfg.Entries()[0].Keys[0]; got != "c" {
		t.Errorf("Entries()[0].Keys[0] = %q, want c", got)
	}
}

func TestConfigHasPrefix(t *testing.T) {
	cfg := MustConfig(testEntries())

	if !cfg.HasPrefix(key.MustParseSeq("d")) {
		t.Error("d should be a prefix of d e")
	}
	if !cfg.HasPrefix(key.MustParseSeq("'")) {
		t.Error("' should be a prefix of ' @lower")
	}
	if cfg.HasPrefix(key.MustParseSeq("c")) {
		t.Error("c is not a prefix of anything")
	}
}

func TestItemFor(t *testing.T) {
	cfg := MustConfig([]Entry[string]{
		NewEntry("save", "Save", "ctrl-s"),
		NewEntry("quit", "Quit", "ctrl-q", "space q"),
	})

	item, ok := ItemFor(cfg, "quit")
	if !ok || item.Description != "Quit" || len(item.Keys) != 2 {
		t.Errorf("ItemFor(quit) = (%+v, %v)", item, ok)
	}
	if _, ok := ItemFor(cfg, "missing"); ok {
		t.Error("ItemFor(missing) should not be found")
	}
}

func TestCapture(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    rune
		wantOK  bool
	}{
		{"@digit", "7", '7', true},
		{"d @digit", "d 3", '3', true},
		{"@any @digit", "x 3", 'x', true},
		{"enter", "enter", 0, false},
		{"d @digit", "d", 0, false},
		{"@any", "enter", 0, false},
	}

	for _, tt := range tests {
		got, ok := Capture(key.MustParseSeq(tt.pattern), key.MustParseSeq(tt.input))
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Capture(%q, %q) = (%q, %v), want (%q, %v)", tt.pattern, tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMerge(t *testing.T) {
	defaults := []Entry[string]{
		NewEntry("create", "Create", "c"),
		NewEntry("delete", "Delete", "d"),
	}
	overrides := []Entry[string]{
		NewEntry("delete", "Remove", "x", "ctrl-d"),
		NewEntry("rename", "Rename", "r"),
	}

	merged := Merge(defaults, overrides)
	if len(merged) != 3 {
		t.Fatalf("len(Merge()) = %d, want 3", len(merged))
	}

	want := []struct {
		action string
		keys   string
		desc   string
	}{
		{"create", "c", "Create"},
		{"delete", "x", "Remove"},
		{"rename", "r", "Rename"},
	}
	for i, w := range want {
		e := merged[i]
		if e.Action != w.action || e.Keys[0] != w.keys || e.Description != w.desc {
			t.Errorf("merged[%d] = %+v, want %+v", i, e, w)
		}
	}

	if defaults[1].Keys[0] != "d" {
		t.Error("Merge should not modify defaults")
	}
}

func TestNewDerivedConfig(t *testing.T) {
	cfg, err := NewDerivedConfig(
		[]Entry[string]{NewEntry("delete", "Delete", "d")},
		[]Entry[string]{NewEntry("delete", "Delete", "x")},
	)
	if err != nil {
		t.Fatalf("NewDerivedConfig() error = %v", err)
	}
	if _, ok := cfg.Get(key.MustParse("d")); ok {
		t.Error("overridden key d should no longer be bound")
	}
	if got, ok := cfg.Get(key.MustParse("x")); !ok || got != "delete" {
		t.Errorf("Get(x) = (%q, %v), want delete", got, ok)
	}
}

func TestResolveWithConverter(t *testing.T) {
	cfg := MustConfig(testEntries())
	convert := Converter[string](func(s string) (key.Node, error) {
		if s == "bad" {
			return key.Node{}, fmt.Errorf("unsupported %q", s)
		}
		return key.Parse(s)
	})

	if got, ok := Resolve(cfg, convert, "c"); !ok || got.Name != "create" {
		t.Errorf("Resolve(c) = (%v, %v)", got, ok)
	}
	if _, ok := Resolve(cfg, convert, "bad"); ok {
		t.Error("Resolve(bad) should not match")
	}
	if got, ok := ResolveSeq(cfg, convert, []string{"d", "e"}); !ok || got.Name != "delete" {
		t.Errorf("ResolveSeq(d e) = (%v, %v)", got, ok)
	}
	if _, ok := ResolveSeq(cfg, convert, []string{"d", "bad"}); ok {
		t.Error("ResolveSeq with a failed conversion should not match")
	}
	if got, ok := ResolveBound(cfg, convert, "'", "k"); !ok || got.Char != 'k' {
		t.Errorf("ResolveBound(' k) = (%+v, %v)", got, ok)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[string]()
	normal := MustConfig([]Entry[string]{NewEntry("top", "", "g g")})
	insert := MustConfig([]Entry[string]{NewEntry("normal", "", "esc")})

	r.Set(ModeNormal, normal)
	r.Set(ModeInsert, insert)

	if got := r.Modes(); len(got) != 2 || got[0] != ModeInsert || got[1] != ModeNormal {
		t.Errorf("Modes() = %v", got)
	}

	res, ok := r.Lookup(ModeNormal, key.MustParseSeq("g g"))
	if !ok || res.Action != "top" {
		t.Errorf("Lookup(normal, g g) = (%+v, %v)", res, ok)
	}
	if !r.HasPrefix(ModeNormal, key.MustParseSeq("g")) {
		t.Error("HasPrefix(normal, g) should be true")
	}
	if _, ok := r.Lookup("visual", key.MustParseSeq("g g")); ok {
		t.Error("Lookup in unknown mode should not match")
	}

	r.Remove(ModeInsert)
	if _, ok := r.Get(ModeInsert); ok {
		t.Error("insert mode should be removed")
	}

	prev := r.Swap(map[string]*Config[string]{ModeInsert: insert})
	if _, ok := prev[ModeNormal]; !ok {
		t.Error("Swap should return the previous modes")
	}
	if _, ok := r.Get(ModeNormal); ok {
		t.Error("normal mode should be gone after Swap")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry[string]()
	cfg := MustConfig([]Entry[string]{NewEntry("save", "", "ctrl-s")})
	r.Set(ModeNormal, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Lookup(ModeNormal, key.MustParseSeq("ctrl-s"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Swap(map[string]*Config[string]{ModeNormal: cfg})
			}
		}()
	}
	wg.Wait()

	if _, ok := r.Lookup(ModeNormal, key.MustParseSeq("ctrl-s")); !ok {
		t.Error("lookup after concurrent swaps should match")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry() error = %v", err)
	}

	tests := []struct {
		mode  string
		input string
		want  string
	}{
		{ModeNormal, "g g", "cursor.moveFirstLine"},
		{ModeNormal, "5", "count.digit"},
		{ModeNormal, "r x", "editor.replaceChar"},
		{ModeNormal, "space w", "file.save"},
		{ModeInsert, "q", "editor.insertChar"},
		{ModeInsert, "ctrl-x ctrl-o", "completion.omni"},
		{ModeVisual, "esc", "mode.normal"},
		{ModeCommand, "enter", "command.execute"},
	}

	for _, tt := range tests {
		res, ok := r.Lookup(tt.mode, key.MustParseSeq(tt.input))
		if !ok || res.Action != tt.want {
			t.Errorf("Lookup(%s, %q) = (%q, %v), want %q", tt.mode, tt.input, res.Action, ok, tt.want)
		}
	}
}
