package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/input/keymap"
	"github.com/dshills/keymap/internal/logging"
	_ "github.com/dshills/keymap/internal/plugin/lua" // .lua binding files
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the persistent flags and what setup derives from them.
type options struct {
	configPath string
	logLevel   string
	noDefaults bool
	jsonOut    bool
	noColor    bool
	backtrack  bool

	settings loader.Settings
	log      *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "keymapctl",
		Short: "Parse, check and explore key binding files",
		Long: `keymapctl works with key binding files written in TOML, YAML, JSON or Lua.

Key expressions look like "ctrl-s", "alt-shift-f4", "g g" or "d @digit".
Bindings from the file are layered over the built-in defaults unless
--no-defaults is given.

Environment:
  KEYMAP_CONFIG            binding file (default: user config dir/keymap/keymap.toml)
  KEYMAP_LOG_LEVEL         debug, info, warn or error
  KEYMAP_SEQUENCE_TIMEOUT  wait between keys of a sequence, e.g. 750ms`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Binding file (overrides KEYMAP_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides KEYMAP_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&opts.noDefaults, "no-defaults", false, "Do not layer bindings over the built-in defaults")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&opts.backtrack, "backtrack", false, "Retry wildcard branches when a specific branch fails")

	cmd.AddCommand(
		newParseCmd(opts),
		newCheckCmd(opts),
		newLookupCmd(opts),
		newListCmd(opts),
		newExportCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (o *options) setup(cmd *cobra.Command) error {
	settings, err := loader.SettingsFromEnv()
	if err != nil {
		return err
	}
	if o.configPath != "" {
		settings.ConfigPath = o.configPath
	}
	if o.logLevel != "" {
		level, ok := logging.ParseLevel(o.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", o.logLevel)
		}
		settings.LogLevel = level
	}
	o.settings = settings

	o.log = logging.New(logging.Config{
		Level:  settings.LogLevel,
		Output: cmd.ErrOrStderr(),
		Prefix: "keymapctl",
	})
	logging.SetDefault(o.log)
	return nil
}

// loadFile reads the binding file. A missing default file is not an
// error; a missing file that was asked for is.
func (o *options) loadFile(path string) (*loader.File, error) {
	explicit := path != "" || o.configPath != ""
	if path == "" {
		path = o.settings.ConfigPath
	}
	if path == "" {
		return nil, nil
	}

	f, err := loader.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			o.log.Debug("no binding file at %s, using defaults", path)
			return nil, nil
		}
		return nil, err
	}
	o.log.Debug("loaded %d bindings from %s", f.Len(), path)
	return f, nil
}

func (o *options) defaults() map[string][]keymap.Entry[string] {
	if o.noDefaults {
		return nil
	}
	return keymap.Defaults()
}

func (o *options) matcherOptions() []keymap.MatcherOption {
	if o.backtrack {
		return []keymap.MatcherOption{keymap.WithBacktracking()}
	}
	return nil
}

// loadRegistry compiles the file at path (or the configured one) over the
// defaults.
func (o *options) loadRegistry(path string) (*keymap.Registry[string], *loader.File, error) {
	f, err := o.loadFile(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := loader.BuildRegistry(f, o.defaults(), o.matcherOptions()...)
	if err != nil {
		return nil, nil, err
	}
	return r, f, nil
}

// fileArg returns the optional binding file argument.
func fileArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func isTerminal(f *os.File) bool {
	return f != nil && isTerminalFd(f.Fd())
}
