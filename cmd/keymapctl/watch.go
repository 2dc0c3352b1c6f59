package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/config/watcher"
	"github.com/dshills/keymap/internal/input"
	"github.com/dshills/keymap/internal/input/backend/terminal"
	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
)

// maxHistory bounds the result lines kept on screen.
const maxHistory = 15

var quitKey = key.MustParse("ctrl-c")

func newWatchCmd(opts *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Resolve key presses live, reloading the binding file on change",
		Long: `The watch command takes over the terminal and shows what every key
press resolves to in the chosen mode, including pending sequences and
timeouts. Saving the binding file reloads it in place. Press ctrl-c to quit.

Example:
  keymapctl watch
  keymapctl watch --mode insert -c keys.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("watch needs an interactive terminal")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			t, err := terminal.NewTerminal()
			if err != nil {
				return err
			}
			if err := t.Init(); err != nil {
				return err
			}
			defer t.Shutdown()
			return runWatch(ctx, t, opts, mode)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", keymap.ModeNormal, "Mode to resolve keys in")
	return cmd
}

// session is the state of one watch run.
type session struct {
	mu      sync.Mutex
	opts    *options
	mode    string
	term    *terminal.Terminal
	reg     *keymap.Registry[string]
	handler *input.Handler[string]
	source  string
	history []string
}

// runWatch feeds key presses from an initialized terminal to a handler
// until ctrl-c, ctx cancellation or the end of input.
func runWatch(ctx context.Context, t *terminal.Terminal, opts *options, mode string) error {
	reg, f, err := opts.loadRegistry("")
	if err != nil {
		return err
	}
	cfg, ok := reg.Get(mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", mode)
	}

	s := &session{opts: opts, mode: mode, term: t, reg: reg, source: "defaults"}
	if f != nil {
		s.source = f.Path
	}
	s.handler = input.NewHandler(cfg, input.Config{
		SequenceTimeout: opts.settings.SequenceTimeout,
		Logger:          opts.log,
	})
	defer s.handler.Close()
	s.handler.OnResult(s.record)

	if w := s.startWatcher(ctx); w != nil {
		defer func() {
			_ = w.Close()
			w.Wait()
		}()
	}
	s.render()

	for {
		ev, err := t.PollKey(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ev.Err != nil {
			s.add(fmt.Sprintf("(%v)", ev.Err))
			continue
		}
		if ev.Node == quitKey {
			return nil
		}
		s.handler.HandleNode(ev.Node)
	}
}

// startWatcher watches the configured binding file when its directory
// exists.
func (s *session) startWatcher(ctx context.Context) *watcher.Watcher {
	path := s.opts.settings.ConfigPath
	if path == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil
	}
	w, err := watcher.New(path, watcher.WithLogger(s.opts.log), watcher.WithHandler(func(ev watcher.Event) {
		s.reload(ev)
	}))
	if err != nil {
		s.opts.log.Warn("not watching %s: %v", path, err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return nil
	}
	return w
}

func (s *session) reload(ev watcher.Event) {
	// A removed file falls back to the defaults alone.
	var f *loader.File
	var err error
	if ev.Op != watcher.OpRemove {
		f, err = s.opts.loadFile("")
	}
	var modes map[string]*keymap.Config[string]
	if err == nil {
		modes, err = loader.BuildModes(f, s.opts.defaults(), s.opts.matcherOptions()...)
	}
	if err != nil {
		s.add("reload failed: " + err.Error())
		return
	}

	s.reg.Swap(modes)
	cfg, ok := s.reg.Get(s.mode)
	if !ok {
		s.add(fmt.Sprintf("reload: mode %s disappeared, keeping old bindings", s.mode))
		return
	}
	s.handler.SetConfig(cfg)
	s.add(fmt.Sprintf("reloaded %s (%s)", filepath.Base(ev.Path), ev.Op))
}

func (s *session) record(r input.Result[string]) {
	switch r.Outcome {
	case input.Matched:
		line := fmt.Sprintf("%-16s -> %s", r.Keys.String(), r.Action)
		if r.Bound {
			line += fmt.Sprintf(" [%q]", r.Captured)
		}
		s.add(line)
	case input.Pending:
		s.render()
	default:
		s.add(fmt.Sprintf("%-16s    %s", r.Keys.String(), r.Outcome))
	}
}

func (s *session) add(line string) {
	s.mu.Lock()
	s.history = append(s.history, line)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
	s.mu.Unlock()
	s.render()
}

func (s *session) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := []string{
		fmt.Sprintf("keymapctl watch: mode %s, bindings from %s (ctrl-c quits)", s.mode, s.source),
		"pending: " + s.handler.PendingKeys(),
		"",
	}
	return append(lines, s.history...)
}

func (s *session) render() {
	s.term.DrawLines(s.lines())
}
