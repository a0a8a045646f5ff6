// ABOUTME: ProcessTerminal implements Terminal using os.Stdout and golang.org/x/term.
// ABOUTME: Manages raw mode state and delegates platform-specific resize handling.

package terminal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by os.Stdout and x/term.
type ProcessTerminal struct {
	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
}

// NewProcessTerminal returns a ProcessTerminal ready for use.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{}
}

// EnterRawMode switches stdin to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w: %w", ErrTerminalUnavailable, err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(os.Stdin.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w: %w", ErrTerminalUnavailable, err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w: %w", ErrTerminalUnavailable, err)
	}
	return w, h, nil
}

// Write sends bytes to os.Stdout.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to stdout: %w: %w", ErrTerminalUnavailable, err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
// Platform-specific signal handling is set up by startResizeListener.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}

// ReadSequence performs a single blocking read of stdin for a
// terminal-generated response (e.g. a cursor position report). If ctx
// carries a deadline, it is applied to the underlying read via
// SetReadDeadline so a non-responding terminal cannot hang the caller.
func (t *ProcessTerminal) ReadSequence(ctx context.Context) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := os.Stdin.SetReadDeadline(deadline); err != nil {
			return "", fmt.Errorf("setting read deadline: %w: %w", ErrTerminalUnavailable, err)
		}
		defer os.Stdin.SetReadDeadline(time.Time{})
	}

	buf := make([]byte, 64)
	n, err := os.Stdin.Read(buf)
	if err != nil {
		return "", fmt.Errorf("reading terminal sequence: %w: %w", ErrTerminalUnavailable, err)
	}
	return string(buf[:n]), nil
}

// HideCursor hides the terminal cursor.
func (t *ProcessTerminal) HideCursor() error {
	_, err := t.Write([]byte("\x1b[?25l"))
	return err
}

// ShowCursor shows the terminal cursor.
func (t *ProcessTerminal) ShowCursor() error {
	_, err := t.Write([]byte("\x1b[?25h"))
	return err
}

// MoveCursorUp moves the cursor up n rows. n <= 0 is a no-op.
func (t *ProcessTerminal) MoveCursorUp(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := t.Write([]byte(fmt.Sprintf("\x1b[%dA", n)))
	return err
}

// MoveCursorDown moves the cursor down n rows. n <= 0 is a no-op.
func (t *ProcessTerminal) MoveCursorDown(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := t.Write([]byte(fmt.Sprintf("\x1b[%dB", n)))
	return err
}

// Clear erases the entire screen and homes the cursor.
func (t *ProcessTerminal) Clear() error {
	_, err := t.Write([]byte("\x1b[2J\x1b[H"))
	return err
}
