package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/match"
	"github.com/tidwall/sjson"

	"github.com/dshills/keymap/internal/input/keymap"
)

func newListCmd(opts *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List bindings, optionally filtered by action",
		Long: `The list command prints every binding of every mode, or of one mode
with --mode. The optional pattern is a glob over action names where *
matches any run of characters and ? a single one.

Example:
  keymapctl list
  keymapctl list --mode insert
  keymapctl list 'cursor.*'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			return runList(cmd.OutOrStdout(), opts, mode, pattern)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Only list this mode")
	return cmd
}

type listRow struct {
	mode string
	keymap.Entry[string]
}

func runList(out io.Writer, opts *options, mode, pattern string) error {
	r, _, err := opts.loadRegistry("")
	if err != nil {
		return err
	}

	modes := r.Modes()
	if mode != "" {
		if _, ok := r.Get(mode); !ok {
			return fmt.Errorf("unknown mode %q (have %s)", mode, strings.Join(modes, ", "))
		}
		modes = []string{mode}
	}

	var rows []listRow
	for _, m := range modes {
		cfg, _ := r.Get(m)
		for _, e := range cfg.Entries() {
			if match.Match(e.Action, pattern) {
				rows = append(rows, listRow{mode: m, Entry: e})
			}
		}
	}

	if opts.jsonOut {
		return writeListJSON(out, rows, opts.noColor)
	}

	st := newStyles(out, opts.noColor)
	keysWidth, actionWidth := 0, 0
	for _, row := range rows {
		keysWidth = max(keysWidth, len(strings.Join(row.Keys, ", ")))
		actionWidth = max(actionWidth, len(row.Action))
	}

	current := ""
	for _, row := range rows {
		if row.mode != current {
			if current != "" {
				fmt.Fprintln(out)
			}
			current = row.mode
			fmt.Fprintln(out, st.header.Render("["+row.mode+"]"))
		}
		keys := fmt.Sprintf("%-*s", keysWidth, strings.Join(row.Keys, ", "))
		action := fmt.Sprintf("%-*s", actionWidth, row.Action)
		line := "  " + st.keys.Render(keys) + "  " + st.action.Render(action)
		if row.Description != "" {
			line += "  " + st.desc.Render(row.Description)
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	if len(rows) == 0 {
		fmt.Fprintf(out, "no actions match %q\n", pattern)
	}
	return nil
}

func writeListJSON(out io.Writer, rows []listRow, noColor bool) error {
	raw := []byte("[]")
	var err error
	for i, row := range rows {
		base := fmt.Sprintf("%d", i)
		if raw, err = sjson.SetBytes(raw, base+".mode", row.mode); err != nil {
			return err
		}
		if raw, err = sjson.SetBytes(raw, base+".action", row.Action); err != nil {
			return err
		}
		if raw, err = sjson.SetBytes(raw, base+".keys", row.Keys); err != nil {
			return err
		}
		if row.Description != "" {
			if raw, err = sjson.SetBytes(raw, base+".description", row.Description); err != nil {
				return err
			}
		}
	}
	return writeJSON(out, raw, noColor)
}
