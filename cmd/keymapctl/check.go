package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/input/key"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a binding file",
		Long: `The check command loads a binding file, compiles every mode over the
defaults and reports invalid expressions. Expressions bound to more than
one action in the same mode are reported as warnings; the later binding
wins.

Example:
  keymapctl check ~/.config/keymap/keymap.toml
  keymapctl check --no-defaults keys.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), opts, fileArg(args))
		},
	}
}

func runCheck(out io.Writer, opts *options, path string) error {
	st := newStyles(out, opts.noColor)

	f, err := opts.loadFile(path)
	if err != nil {
		return err
	}
	modes, err := loader.BuildModes(f, opts.defaults(), opts.matcherOptions()...)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(modes))
	total := 0
	for name, cfg := range modes {
		names = append(names, name)
		total += cfg.Len()
	}
	slices.Sort(names)

	for _, w := range conflicts(f) {
		fmt.Fprintln(out, st.errMsg.Render("warning: "+w))
	}

	source := "defaults"
	if f != nil {
		source = f.Path
	}
	fmt.Fprintln(out, st.ok.Render(fmt.Sprintf("ok: %s: %d actions in %d modes", source, total, len(names))))
	return nil
}

// conflicts lists expressions that the file binds to several actions
// within one mode.
func conflicts(f *loader.File) []string {
	if f == nil {
		return nil
	}
	var out []string
	for _, mode := range f.Order {
		seen := make(map[string]string)
		for _, e := range f.Modes[mode] {
			for _, expr := range e.Keys {
				canon, err := key.NormalizeSeq(expr)
				if err != nil {
					continue
				}
				if prev, ok := seen[canon]; ok && prev != e.Name {
					out = append(out, fmt.Sprintf("%s: %q bound to %s and %s", mode, canon, prev, e.Name))
				}
				seen[canon] = e.Name
			}
		}
	}
	return out
}
