// Package keymap resolves key sequences to actions.
//
// # Key Concepts
//
// Matcher: A trie over key.Node patterns with exact and character-group
// branches. Lookups prefer an exact node, then the first specific group
// that accepts the character, then @any.
//
// Config: A compiled set of entries. Each entry pairs an action with an
// Item (key expressions plus a description).
//
// Registry: Named modes mapped to configs, safe for concurrent reload.
//
// # Payload Capture
//
// Actions implementing Binder receive the character that satisfied the
// first character group of the matched pattern:
//
//	type Register rune
//
//	func (Register) Bind(ch rune) Register { return Register(ch) }
//
//	cfg := keymap.MustConfig([]keymap.Entry[Register]{
//	    keymap.NewEntry(Register(0), "Select register", "\" @alnum"),
//	})
//	reg, _ := cfg.GetBoundSeq(key.MustParseSeq("\" a"))   // Register('a')
//
// # User Overrides
//
// Merge layers user entries over defaults: an entry for an existing action
// replaces its keys, other entries are appended.
//
//	cfg, err := keymap.NewDerivedConfig(keymap.DefaultNormalEntries(), userEntries)
//
// # Usage
//
//	registry, _ := keymap.DefaultRegistry()
//	res, ok := registry.Lookup(keymap.ModeNormal, key.MustParseSeq("g g"))
//	if ok {
//	    // Execute res.Action
//	}
//
//	// Check if more keys might complete a binding
//	if registry.HasPrefix(keymap.ModeNormal, pending) {
//	    // Wait for more keys
//	}
package keymap
