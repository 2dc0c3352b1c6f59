package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymap/internal/config/loader"
	"github.com/dshills/keymap/internal/config/watcher"
	"github.com/dshills/keymap/internal/input"
	"github.com/dshills/keymap/internal/input/backend/terminal"
	"github.com/dshills/keymap/internal/input/key"
	"github.com/dshills/keymap/internal/input/keymap"
	"github.com/dshills/keymap/internal/logging"
)

func newSimTerminal(t *testing.T) *terminal.Terminal {
	t.Helper()
	term := terminal.NewTerminalWithScreen(tcell.NewSimulationScreen(""))
	require.NoError(t, term.Init())
	t.Cleanup(term.Shutdown)
	return term
}

func testOptions(configPath string) *options {
	settings := loader.DefaultSettings()
	settings.ConfigPath = configPath
	settings.SequenceTimeout = 0
	return &options{settings: settings, log: logging.Nop()}
}

func newTestSession(t *testing.T, opts *options) *session {
	t.Helper()
	reg, _, err := opts.loadRegistry("")
	require.NoError(t, err)
	cfg, ok := reg.Get(keymap.ModeNormal)
	require.True(t, ok)

	s := &session{opts: opts, mode: keymap.ModeNormal, term: newSimTerminal(t), reg: reg}
	s.handler = input.NewHandler(cfg, input.Config{Logger: opts.log})
	s.handler.OnResult(s.record)
	t.Cleanup(s.handler.Close)
	return s
}

func TestRunWatchQuits(t *testing.T) {
	term := newSimTerminal(t)
	opts := testOptions(filepath.Join(t.TempDir(), "missing.toml"))

	for _, spec := range []string{"g", "g", "ctrl-c"} {
		require.NoError(t, term.PostKey(key.MustParse(spec)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, runWatch(ctx, term, opts, keymap.ModeNormal))
	assert.NoError(t, ctx.Err())
}

func TestRunWatchUnknownMode(t *testing.T) {
	term := newSimTerminal(t)
	opts := testOptions(filepath.Join(t.TempDir(), "missing.toml"))

	err := runWatch(context.Background(), term, opts, "nope")
	assert.Error(t, err)
}

func TestRunWatchCancel(t *testing.T) {
	term := newSimTerminal(t)
	opts := testOptions(filepath.Join(t.TempDir(), "missing.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	assert.NoError(t, runWatch(ctx, term, opts, keymap.ModeNormal))
}

func TestSessionRecord(t *testing.T) {
	s := newTestSession(t, testOptions(""))

	s.handler.HandleNode(key.MustParse("g"))
	assert.Equal(t, "g", s.handler.PendingKeys())
	s.handler.HandleNode(key.MustParse("g"))
	s.handler.HandleNode(key.MustParse("m"))
	s.handler.HandleNode(key.MustParse("x"))
	s.handler.HandleNode(key.MustParse("alt-f9"))

	text := strings.Join(s.lines(), "\n")
	assert.Contains(t, text, "cursor.moveFirstLine")
	assert.Contains(t, text, "mark.set ['x']")
	assert.Contains(t, text, "unmatched")
}

func TestSessionHistoryBounded(t *testing.T) {
	s := newTestSession(t, testOptions(""))

	for i := 0; i < maxHistory+5; i++ {
		s.add("line")
	}
	assert.Len(t, s.history, maxHistory)
}

func TestSessionReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.toml")
	opts := testOptions(path)
	s := newTestSession(t, opts)

	q := key.Sequence{key.MustParse("ctrl-k")}
	_, ok := s.handler.Keymap().GetSeq(q)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(`"app.kill" = "ctrl-k"`), 0o644))
	s.reload(watcher.Event{Path: path, Op: watcher.OpWrite})

	action, ok := s.handler.Keymap().GetSeq(q)
	require.True(t, ok)
	assert.Equal(t, "app.kill", action)
	assert.Contains(t, strings.Join(s.lines(), "\n"), "reloaded keys.toml (write)")

	// A broken file keeps the previous bindings.
	require.NoError(t, os.WriteFile(path, []byte(`"app.kill" = "ctrl-@nope"`), 0o644))
	s.reload(watcher.Event{Path: path, Op: watcher.OpWrite})
	_, ok = s.handler.Keymap().GetSeq(q)
	assert.True(t, ok)
	assert.Contains(t, strings.Join(s.lines(), "\n"), "reload failed")

	// Removing the file falls back to the defaults.
	require.NoError(t, os.Remove(path))
	s.reload(watcher.Event{Path: path, Op: watcher.OpRemove})
	_, ok = s.handler.Keymap().GetSeq(q)
	assert.False(t, ok)
}
