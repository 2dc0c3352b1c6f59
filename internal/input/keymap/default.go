package keymap

// Built-in mode names.
const (
	ModeNormal  = "normal"
	ModeInsert  = "insert"
	ModeVisual  = "visual"
	ModeCommand = "command"
)

// Defaults returns the built-in bindings keyed by mode. Actions are plain
// command names.
func Defaults() map[string][]Entry[string] {
	return map[string][]Entry[string]{
		ModeNormal:  DefaultNormalEntries(),
		ModeInsert:  DefaultInsertEntries(),
		ModeVisual:  DefaultVisualEntries(),
		ModeCommand: DefaultCommandEntries(),
	}
}

// DefaultNormalEntries returns default normal mode bindings.
func DefaultNormalEntries() []Entry[string] {
	return []Entry[string]{
		// Movement
		NewEntry("cursor.moveLeft", "Move left", "h", "left"),
		NewEntry("cursor.moveDown", "Move down", "j", "down"),
		NewEntry("cursor.moveUp", "Move up", "k", "up"),
		NewEntry("cursor.moveRight", "Move right", "l", "right"),
		NewEntry("cursor.wordForward", "Move to next word", "w"),
		NewEntry("cursor.wordBackward", "Move to previous word", "b"),
		NewEntry("cursor.moveLineStart", "Move to line start", "0", "home"),
		NewEntry("cursor.moveLineEnd", "Move to line end", "$", "end"),
		NewEntry("cursor.moveFirstLine", "Go to document start", "g g"),
		NewEntry("cursor.moveLastLine", "Go to document end", "G"),
		NewEntry("cursor.findForward", "Find char forward", "f @any"),
		NewEntry("cursor.findBackward", "Find char backward", "F @any"),

		// Counts
		NewEntry("count.digit", "Repeat count", "@digit"),

		// Scrolling
		NewEntry("view.halfPageDown", "Scroll half page down", "ctrl-d"),
		NewEntry("view.halfPageUp", "Scroll half page up", "ctrl-u"),
		NewEntry("view.pageDown", "Scroll page down", "ctrl-f", "pagedown"),
		NewEntry("view.pageUp", "Scroll page up", "ctrl-b", "pageup"),
		NewEntry("view.centerCursor", "Center cursor on screen", "z z"),

		// Mode switching
		NewEntry("mode.insert", "Enter insert mode", "i"),
		NewEntry("mode.append", "Append after cursor", "a"),
		NewEntry("mode.visual", "Enter visual mode", "v"),
		NewEntry("mode.command", "Enter command mode", ":"),

		// Editing
		NewEntry("editor.deleteLine", "Delete line", "d d"),
		NewEntry("editor.yankLine", "Yank line", "y y"),
		NewEntry("editor.deleteChar", "Delete character", "x", "delete"),
		NewEntry("editor.replaceChar", "Replace character", "r @any"),
		NewEntry("editor.pasteAfter", "Paste after", "p"),
		NewEntry("editor.undo", "Undo", "u"),
		NewEntry("editor.redo", "Redo", "ctrl-r"),

		// Marks and registers
		NewEntry("mark.set", "Set mark", "m @lower"),
		NewEntry("mark.gotoLine", "Go to mark line", "' @lower"),
		NewEntry("register.select", "Select register", "\" @alnum"),

		// Search
		NewEntry("search.forward", "Search forward", "/"),
		NewEntry("search.next", "Next search result", "n"),
		NewEntry("search.previous", "Previous search result", "N"),

		// Files
		NewEntry("file.save", "Save file", "ctrl-s", "space w"),
		NewEntry("app.quit", "Quit", "ctrl-q", "space q"),
	}
}

// DefaultInsertEntries returns default insert mode bindings.
func DefaultInsertEntries() []Entry[string] {
	return []Entry[string]{
		NewEntry("mode.normal", "Return to normal mode", "esc", "ctrl-c"),
		NewEntry("editor.insertChar", "Insert character", "@any"),
		NewEntry("editor.insertUpper", "Insert uppercase character", "shift-@upper"),
		NewEntry("editor.insertNewline", "Insert newline", "enter"),
		NewEntry("editor.insertTab", "Insert tab", "tab"),
		NewEntry("editor.deleteCharBefore", "Delete char before cursor", "backspace", "ctrl-h"),
		NewEntry("editor.deleteWordBefore", "Delete word before cursor", "ctrl-w"),
		NewEntry("completion.next", "Next completion", "ctrl-n"),
		NewEntry("completion.previous", "Previous completion", "ctrl-p"),
		NewEntry("completion.omni", "Omni completion", "ctrl-x ctrl-o"),
		NewEntry("completion.file", "File completion", "ctrl-x ctrl-f"),
		NewEntry("cursor.moveLeft", "Move left", "left"),
		NewEntry("cursor.moveRight", "Move right", "right"),
		NewEntry("cursor.moveUp", "Move up", "up"),
		NewEntry("cursor.moveDown", "Move down", "down"),
	}
}

// DefaultVisualEntries returns default visual mode bindings.
func DefaultVisualEntries() []Entry[string] {
	return []Entry[string]{
		NewEntry("mode.normal", "Return to normal mode", "esc", "ctrl-c"),
		NewEntry("selection.swapAnchor", "Swap selection anchor", "o"),
		NewEntry("editor.deleteSelection", "Delete selection", "d", "x"),
		NewEntry("editor.yankSelection", "Yank selection", "y"),
		NewEntry("editor.indentSelection", "Indent selection", ">"),
		NewEntry("editor.outdentSelection", "Outdent selection", "<"),
		NewEntry("editor.replaceSelection", "Replace with character", "r @any"),
	}
}

// DefaultCommandEntries returns default command-line mode bindings.
func DefaultCommandEntries() []Entry[string] {
	return []Entry[string]{
		NewEntry("mode.normal", "Cancel command", "esc", "ctrl-c"),
		NewEntry("command.execute", "Execute command", "enter"),
		NewEntry("command.historyPrev", "Previous command", "up", "ctrl-p"),
		NewEntry("command.historyNext", "Next command", "down", "ctrl-n"),
		NewEntry("command.complete", "Complete command", "tab"),
		NewEntry("command.insertChar", "Insert character", "@any"),
	}
}

// DefaultRegistry compiles Defaults into a registry.
func DefaultRegistry() (*Registry[string], error) {
	r := NewRegistry[string]()
	for mode, entries := range Defaults() {
		cfg, err := NewConfig(entries)
		if err != nil {
			return nil, err
		}
		r.Set(mode, cfg)
	}
	return r, nil
}
