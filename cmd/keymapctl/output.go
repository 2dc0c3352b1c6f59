package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/pretty"
	"golang.org/x/term"
)

func isTerminalFd(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// styles used by the text output. Colors are dropped when writing to
// something other than a terminal or when --no-color is set.
type styles struct {
	header lipgloss.Style
	keys   lipgloss.Style
	action lipgloss.Style
	desc   lipgloss.Style
	errMsg lipgloss.Style
	ok     lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	if noColor || !writerIsTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{header: plain, keys: plain, action: plain, desc: plain, errMsg: plain, ok: plain}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		keys:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		action: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		desc:   lipgloss.NewStyle().Faint(true),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// writeJSON pretty-prints raw JSON, colored on a terminal.
func writeJSON(w io.Writer, raw []byte, noColor bool) error {
	out := pretty.Pretty(raw)
	if !noColor && writerIsTerminal(w) {
		out = pretty.Color(out, nil)
	}
	_, err := w.Write(out)
	return err
}
