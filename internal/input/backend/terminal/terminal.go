package terminal

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymap/internal/input/key"
)

// ErrNotInitialized is returned when the screen is used before Init.
var ErrNotInitialized = errors.New("terminal not initialized")

// KeyEvent is a key press read from the terminal.
type KeyEvent struct {
	// Node is the converted key. Err is set instead when conversion failed.
	Node key.Node

	// Raw is the tcell event.
	Raw *tcell.EventKey

	// Err is non-nil for keys that have no node form.
	Err error
}

// Terminal wraps a tcell screen for reading key presses and printing
// lines of text.
type Terminal struct {
	screen      tcell.Screen
	initialized bool
	mu          sync.Mutex
}

// NewTerminal creates a terminal on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.initialized = true
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	t.screen.Fini()
	t.initialized = false
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// PollKey blocks until a key is pressed, ctx is done or the screen is
// finalized (io.EOF). Resize and other events are skipped.
func (t *Terminal) PollKey(ctx context.Context) (KeyEvent, error) {
	t.mu.Lock()
	ready := t.initialized
	t.mu.Unlock()
	if !ready {
		return KeyEvent{}, ErrNotInitialized
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
		case <-done:
		}
	}()

	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return KeyEvent{}, io.EOF
		case *tcell.EventKey:
			n, err := FromEvent(e)
			return KeyEvent{Node: n, Raw: e, Err: err}, nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return KeyEvent{}, err
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		}
	}
}

// PostKey injects a key press as if typed.
func (t *Terminal) PostKey(n key.Node) error {
	ev, err := ToEvent(n)
	if err != nil {
		return err
	}
	return t.screen.PostEvent(ev)
}

// DrawLines clears the screen and prints lines from the top left,
// truncated to the screen width.
func (t *Terminal) DrawLines(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	for y, line := range lines {
		if y >= height {
			break
		}
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}
	t.screen.Show()
}
