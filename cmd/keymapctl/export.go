package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/input/keymap"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective bindings in another format",
		Long: `The export command writes the bindings that are in effect (the defaults
with the binding file layered on top) as TOML, YAML or JSON. The format
defaults to the extension of --output, or TOML when writing to stdout.

Example:
  keymapctl export --format yaml
  keymapctl export -o keys.json
  keymapctl export --no-defaults -c keys.lua -o keys.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), opts, format, output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: toml, yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func runExport(out io.Writer, opts *options, format, output string) error {
	f := loader.Format(format)
	if f == "" {
		f = loader.FormatTOML
		if output != "" {
			var err error
			if f, err = loader.FormatFromPath(output); err != nil {
				return err
			}
		}
	}

	r, _, err := opts.loadRegistry("")
	if err != nil {
		return err
	}

	modes := r.Modes()
	entries := make(map[string][]keymap.Entry[string], len(modes))
	for _, m := range modes {
		cfg, _ := r.Get(m)
		entries[m] = cfg.Entries()
	}

	data, err := loader.Export(f, loader.FromEntries(entries, modes...))
	if err != nil {
		return err
	}

	if output == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	opts.log.Info("wrote %s", output)
	return nil
}
