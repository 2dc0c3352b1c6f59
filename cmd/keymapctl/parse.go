package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/keymap/internal/input/key"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expr>...",
		Short: "Parse key expressions and print their canonical form",
		Long: `The parse command checks key expressions against the grammar and prints
each in canonical form, one per line.

Example:
  keymapctl parse shift-ctrl-a "g g" @digit
  keymapctl parse --json "ctrl-x ctrl-o"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), opts, args)
		},
	}
}

func runParse(out io.Writer, opts *options, args []string) error {
	st := newStyles(out, opts.noColor)
	raw := []byte("[]")
	failed := 0

	for i, expr := range args {
		seq, err := key.ParseSeq(expr)
		if err == nil && seq.IsEmpty() {
			err = key.ErrEmptySpec
		}
		if err != nil {
			failed++
			if opts.jsonOut {
				raw, _ = sjson.SetBytes(raw, fmt.Sprintf("%d.input", i), expr)
				raw, _ = sjson.SetBytes(raw, fmt.Sprintf("%d.error", i), err.Error())
				continue
			}
			fmt.Fprintln(out, st.errMsg.Render(describeParseError(expr, err)))
			continue
		}

		if opts.jsonOut {
			raw, err = appendSeqJSON(raw, i, expr, seq)
			if err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(out, seq.String())
	}

	if opts.jsonOut {
		if err := writeJSON(out, raw, opts.noColor); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expression(s) invalid", failed, len(args))
	}
	return nil
}

func appendSeqJSON(raw []byte, i int, expr string, seq key.Sequence) ([]byte, error) {
	base := fmt.Sprintf("%d", i)
	var err error
	if raw, err = sjson.SetBytes(raw, base+".input", expr); err != nil {
		return nil, err
	}
	if raw, err = sjson.SetBytes(raw, base+".canonical", seq.String()); err != nil {
		return nil, err
	}
	for j, n := range seq {
		node := fmt.Sprintf("%s.nodes.%d", base, j)
		mods := strings.Split(n.Modifiers.String(), string(key.Separator))
		if n.Modifiers.IsEmpty() {
			mods = []string{}
		}
		if raw, err = sjson.SetBytes(raw, node+".modifiers", mods); err != nil {
			return nil, err
		}
		if raw, err = sjson.SetBytes(raw, node+".key", n.Key.String()); err != nil {
			return nil, err
		}
		if raw, err = sjson.SetBytes(raw, node+".group", n.IsGroup()); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// describeParseError renders the failing token with a caret under the
// offending position.
func describeParseError(expr string, err error) string {
	var perr *key.ParseError
	if !errors.As(err, &perr) {
		return fmt.Sprintf("%s: %v", expr, err)
	}
	return fmt.Sprintf("%s\n%s^ %s", perr.Input, strings.Repeat(" ", perr.Position), perr.Message)
}
