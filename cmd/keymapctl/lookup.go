package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
)

func newLookupCmd(opts *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "lookup <keys>...",
		Short: "Show which action a key sequence triggers",
		Long: `The lookup command resolves a key sequence in one mode. Arguments are
joined with spaces, so "g g" and g g are the same sequence.

A sequence that only starts a longer binding is reported as pending.

Example:
  keymapctl lookup g g
  keymapctl lookup --mode insert ctrl-x ctrl-o
  keymapctl lookup '"' a`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.OutOrStdout(), opts, mode, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", keymap.ModeNormal, "Mode to look up in")
	return cmd
}

func runLookup(out io.Writer, opts *options, mode, expr string) error {
	seq, err := key.ParseSeq(expr)
	if err != nil {
		return err
	}
	if seq.IsEmpty() {
		return key.ErrEmptySpec
	}

	r, _, err := opts.loadRegistry("")
	if err != nil {
		return err
	}
	if _, ok := r.Get(mode); !ok {
		return fmt.Errorf("unknown mode %q (have %s)", mode, strings.Join(r.Modes(), ", "))
	}

	res, matched := r.Lookup(mode, seq)
	pending := !matched && r.HasPrefix(mode, seq)

	if opts.jsonOut {
		raw := []byte("{}")
		raw, _ = sjson.SetBytes(raw, "mode", mode)
		raw, _ = sjson.SetBytes(raw, "keys", seq.String())
		raw, _ = sjson.SetBytes(raw, "matched", matched)
		raw, _ = sjson.SetBytes(raw, "pending", pending)
		if matched {
			raw, _ = sjson.SetBytes(raw, "action", res.Action)
			raw, _ = sjson.SetBytes(raw, "description", res.Item.Description)
			raw, _ = sjson.SetBytes(raw, "pattern", res.Pattern.String())
			if res.HasCapture {
				raw, _ = sjson.SetBytes(raw, "captured", string(res.Captured))
			}
		}
		if err := writeJSON(out, raw, opts.noColor); err != nil {
			return err
		}
	} else {
		st := newStyles(out, opts.noColor)
		switch {
		case matched:
			fmt.Fprintf(out, "%s -> %s", st.keys.Render(seq.String()), st.action.Render(res.Action))
			if res.Item.Description != "" {
				fmt.Fprintf(out, "  %s", st.desc.Render(res.Item.Description))
			}
			fmt.Fprintln(out)
			if !res.Pattern.Equal(seq) {
				fmt.Fprintf(out, "  via %s", res.Pattern.String())
				if res.HasCapture {
					fmt.Fprintf(out, " (captured %q)", res.Captured)
				}
				fmt.Fprintln(out)
			}
		case pending:
			fmt.Fprintf(out, "%s: pending, more keys expected\n", seq.String())
		}
	}

	if !matched && !pending {
		return fmt.Errorf("%q is not bound in mode %s", seq.String(), mode)
	}
	return nil
}
