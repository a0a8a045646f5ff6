// ABOUTME: TUI engine with differential rendering, focus management, and overlay compositing
// ABOUTME: Uses buffered channel for render coalescing; CSI 2026 synchronized output

package tui

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/flowterm/flowterm/tui/internal/pool"
	"github.com/flowterm/flowterm/tui/width"
)

// Sentinel errors for the renderer's failure modes. They are never
// returned directly from the synchronous render path (which is a
// best-effort, fire-and-forget operation by design, matching the
// teacher's render loop), but are logged via errors.Is-compatible
// wrapping to os.Stderr (never to the Writer) so callers inspecting
// stderr output can distinguish them.
var (
	// ErrInvalidDimensions means render() was asked to draw into a
	// terminal with a non-positive width or height.
	ErrInvalidDimensions = errors.New("tui: invalid terminal dimensions")

	// ErrRenderFailure means a component panicked while rendering.
	// The frame is dropped; the render loop continues.
	ErrRenderFailure = errors.New("tui: component render failed")

	// ErrResizeDuringFrame means SetSize was called while a frame was
	// being built, invalidating the in-flight diff against prevLines.
	ErrResizeDuringFrame = errors.New("tui: terminal resized during frame render")
)

// tailReset is appended to every visible line after overlay compositing:
// reset SGR, erase to end of line (so a shrinking line never bleeds stale
// trailing glyphs without a full clear), and close any dangling OSC 8
// hyperlink. It is the only place this sequence is emitted.
const tailReset = "\x1b[0m\x1b[K\x1b]8;;\x07"

// Writer is the minimal interface for terminal output.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// TUI is the main rendering engine.
type TUI struct {
	container *Container
	writer    Writer
	width     int
	height    int

	mu            sync.Mutex
	previousLines []string
	overlays      []Overlay
	focused       Focusable
	renderCh      chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
	running       bool

	// Relative rendering state
	rstate renderState
}

// New creates a new TUI engine writing to w with the given dimensions.
func New(w Writer, termWidth, termHeight int) *TUI {
	return &TUI{
		container: NewContainer(),
		writer:    w,
		width:     termWidth,
		height:    termHeight,
		renderCh:  make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		// lastWidth/lastHeight start at zero, which never matches a real
		// terminal size, so the first render is handled by the ordinary
		// resize-check path rather than a separate first-render branch.
		rstate: renderState{hardwareCursorRow: -1},
	}
}

// Container returns the root container for adding components.
func (t *TUI) Container() *Container {
	return t.container
}

// SetSize updates the terminal dimensions and triggers a re-render.
func (t *TUI) SetSize(w, h int) {
	t.mu.Lock()
	t.width = w
	t.height = h
	t.previousLines = nil // render()'s resize check will also zero this
	t.mu.Unlock()
	t.container.Invalidate()
	t.RequestRender()
}

// ForceRedraw schedules a full clear-and-repaint on the next frame: clear
// screen, clear scrollback, home, and reset all scrollback accounting. Use
// this for a screen switch, where stale content from the previous screen
// must not linger anywhere, including in native scrollback.
func (t *TUI) ForceRedraw() {
	t.mu.Lock()
	t.rstate.forceFullRedraw = true
	t.mu.Unlock()
	t.RequestRender()
}

// SetFocus transfers keyboard focus to f, notifying the previously
// focused component (if any) that it has lost focus.
func (t *TUI) SetFocus(f Focusable) {
	t.mu.Lock()
	prev := t.focused
	t.focused = f
	t.mu.Unlock()

	if prev != nil && prev != f {
		prev.SetFocused(false)
	}
	if f != nil {
		f.SetFocused(true)
	}
}

// PushOverlay adds a modal overlay on top of the content. If the overlay's
// component is Focusable, it captures whatever currently holds focus and
// takes focus itself; the captured component is restored on PopOverlay.
func (t *TUI) PushOverlay(o Overlay) {
	t.mu.Lock()
	o.previousFocus = t.focused
	t.overlays = append(t.overlays, o)
	t.mu.Unlock()

	if f, ok := o.Component.(Focusable); ok {
		t.SetFocus(f)
	}
	t.RequestRender()
}

// PopOverlay removes the topmost overlay and restores whatever focus it
// captured when pushed.
func (t *TUI) PopOverlay() {
	t.mu.Lock()
	var restore Focusable
	if len(t.overlays) > 0 {
		top := t.overlays[len(t.overlays)-1]
		restore = top.previousFocus
		t.overlays = t.overlays[:len(t.overlays)-1]
	}
	t.mu.Unlock()

	t.SetFocus(restore)
	t.RequestRender()
}

// RequestRender signals that a render is needed. Multiple calls coalesce
// into a single render via a buffered channel of size 1.
func (t *TUI) RequestRender() {
	select {
	case t.renderCh <- struct{}{}:
	default: // Already pending; coalesced
	}
}

// Start begins the render loop in a goroutine. Call Stop to terminate.
func (t *TUI) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	go t.renderLoop()
}

// Stop terminates the render loop. Safe to call multiple times.
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		if !t.running {
			t.mu.Unlock()
			return
		}
		t.running = false
		t.mu.Unlock()
		close(t.stopCh)
	})
}

// RenderOnce performs a single synchronous render. Useful for testing.
func (t *TUI) RenderOnce() {
	t.render()
}

func (t *TUI) renderLoop() {
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.renderCh:
			t.render()
		}
	}
}

// render executes one frame lifecycle: pre-flight/resize handling,
// rendering the component tree and overlays, diffing against the previous
// frame, and writing a single assembled byte buffer to the terminal.
func (t *TUI) render() {
	t.mu.Lock()
	w := t.width
	h := t.height
	prevLines := t.previousLines
	rstate := t.rstate
	overlays := make([]Overlay, len(t.overlays))
	copy(overlays, t.overlays)
	t.mu.Unlock()

	// Zero-size terminals never mutate renderer state: deferring rendering
	// entirely avoids diffing against a viewport that cannot display anything.
	if w <= 0 || h <= 0 {
		t.logFrameError(fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h))
		return
	}

	// Pre-flight: an explicit force-redraw request (e.g. a screen switch)
	// clears everything, including scrollback accounting.
	var preamble string
	if rstate.forceFullRedraw {
		preamble = "\x1b[2J\x1b[3J\x1b[H"
		prevLines = nil
		rstate.hardwareCursorRow = 0
		rstate.maxLinesRendered = 0
		rstate.emittedScrollbackLines = 0
		rstate.forceFullRedraw = false
	} else if rstate.lastWidth != w || rstate.lastHeight != h {
		// Resize check: any dimension change invalidates previousLines and
		// forces the next cursor movement to re-home, since the terminal's
		// own idea of where our cursor sits is no longer trustworthy.
		preamble = "\x1b[2J\x1b[3J"
		prevLines = nil
		rstate.hardwareCursorRow = -1
		t.container.Invalidate()
	}

	// Render children. base_lines's length before overlay compositing is
	// the authoritative content count for scrollback bookkeeping; overlays
	// only composite onto existing or viewport-padded rows, never extend it.
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)

	if !t.renderContent(buf, w) {
		return
	}
	// contentCount is the real content row count, before overlays. It is
	// the only count that feeds scrollback bookkeeping (max_lines_rendered,
	// emitted_scrollback_lines): overlays are transient and must never
	// permanently inflate scrollback history.
	contentCount := buf.Len()

	// Viewport offset, computed from the high-water mark AS OF this frame:
	// a frame that itself grows content past the previous high-water mark
	// must use its own new total, not the stale prior one, or overlay
	// compositing and diffing would target a viewport top that is one
	// frame behind the content actually being rendered.
	newMax := rstate.maxLinesRendered
	if contentCount > newMax {
		newMax = contentCount
	}
	firstVisible := 0
	if newMax > h {
		firstVisible = newMax - h
	}

	compositeOverlays(buf, overlays, w, h, firstVisible)
	applyTailReset(buf, firstVisible, h)
	lines := buf.Lines

	// displayCount is what must actually appear on screen this frame: real
	// content plus whatever viewport padding overlay compositing added to
	// host an overlay below sparse content. It bounds the diff/shrink
	// loops, which must draw every row overlays touch even past
	// contentCount, while growth/high-water-mark bookkeeping above stays on
	// contentCount alone.
	displayCount := buf.Len()

	// A resize that lands between reading t.width/t.height above and this
	// point would make prevLines and the freshly rendered lines describe
	// two different viewports; bail out and let the resize's own
	// RequestRender produce a correct frame instead.
	t.mu.Lock()
	resized := t.width != w || t.height != h
	t.mu.Unlock()
	if resized {
		t.logFrameError(fmt.Errorf("%w", ErrResizeDuringFrame))
		return
	}

	// Extract the cursor marker, scanning only the visible window: a
	// cursor position outside the viewport can't be placed on screen. A
	// shrink can leave firstVisible past the end of lines entirely (content
	// dropped below the still-elevated high-water mark, see force-redraw),
	// in which case nothing is visible and there is no cursor to place.
	screenCursorRow, cursorCol := -1, -1
	if firstVisible < len(lines) {
		visibleEnd := firstVisible + h
		if visibleEnd > len(lines) {
			visibleEnd = len(lines)
		}
		screenCursorRow, cursorCol = extractCursorPosition(lines[firstVisible:visibleEnd])
	}

	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)
	var numBuf [20]byte

	b.WriteString(preamble)
	b.WriteString("\x1b[?2026h") // begin synchronized output

	emitGrowth(b, numBuf[:], &rstate, lines, contentCount, h)
	emitShrink(b, numBuf[:], &rstate, prevLines, displayCount, firstVisible, h)
	emitDiff(b, numBuf[:], &rstate, prevLines, lines, displayCount, firstVisible, h)

	b.WriteString("\x1b[?2026l") // end synchronized output

	// Position the hardware cursor outside the synchronized block: it's a
	// cheap follow-up to the content swap, not part of it.
	if screenCursorRow >= 0 && cursorCol >= 0 {
		moveCursor(b, numBuf[:], rstate.hardwareCursorRow, screenCursorRow)
		rstate.hardwareCursorRow = screenCursorRow
		fmt.Fprintf(b, "\r\x1b[%dC", cursorCol)
		b.WriteString("\x1b[?25h") // show cursor
	} else {
		b.WriteString("\x1b[?25l") // hide cursor
	}

	if rstate.hardwareCursorRow < 0 {
		rstate.hardwareCursorRow = 0
	}

	_, _ = t.writer.Write([]byte(b.String()))

	// Save current lines for next diff, reusing the previous slice when possible.
	saved := t.previousLines
	if cap(saved) >= len(lines) {
		saved = saved[:len(lines)]
	} else {
		saved = make([]string, len(lines))
	}
	copy(saved, lines)

	rstate.firstVisibleRowPrevious = firstVisible
	rstate.lastWidth = w
	rstate.lastHeight = h

	t.mu.Lock()
	t.previousLines = saved
	t.rstate = rstate
	t.mu.Unlock()
}

// renderContent renders the container into buf, recovering from any
// component panic so a single misbehaving component drops one frame
// instead of taking down the render loop. Returns false if the frame
// should be abandoned.
func (t *TUI) renderContent(buf *RenderBuffer, w int) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.logFrameError(fmt.Errorf("%w: %v\n%s", ErrRenderFailure, r, debug.Stack()))
			ok = false
		}
	}()

	t.container.Render(buf, w)
	return true
}

// logFrameError reports a dropped-frame error. The render loop never
// surfaces these as Go errors to its caller (RenderOnce/Start have no
// error return, matching the teacher's fire-and-forget render loop), so
// stderr is the only observable channel, consistent with how
// terminal.RestoreOnPanic reports fatal terminal errors.
func (t *TUI) logFrameError(err error) {
	fmt.Fprintln(os.Stderr, err)
}

// compositeOverlays renders overlays on top of the main buffer, resolving
// each overlay's anchor/margin/offset/size clamps against the viewport and
// splicing the overlay's columns into the affected rows via
// width.SliceByColumn so that content to the left and right of the overlay
// survives untouched. Overlay (row, col) is screen-relative; firstVisible
// offsets it into buf's content-row coordinates so overlays stay pinned to
// the viewport instead of an absolute row in a scrolled-past buffer.
func compositeOverlays(buf *RenderBuffer, overlays []Overlay, w, h, firstVisible int) {
	for _, o := range overlays {
		ow := o.resolveWidth(w)
		if ow <= 0 {
			continue
		}

		overlayBuf := AcquireBuffer()
		o.Component.Render(overlayBuf, ow)

		oh := o.resolveHeight(overlayBuf.Len())
		row, col := o.resolvePosition(ow, oh, w, h)

		// Ensure buf reaches the overlay's bottom edge within the viewport.
		for buf.Len() < firstVisible+row+oh {
			buf.WriteLine("")
		}

		for i := 0; i < oh && i < overlayBuf.Len(); i++ {
			target := firstVisible + row + i
			if target >= len(buf.Lines) {
				break
			}
			original := buf.Lines[target]
			left := width.SliceByColumn(original, 0, col)
			right := width.SliceByColumn(original, col+ow, w)
			buf.Lines[target] = left + overlayBuf.Lines[i] + right
		}

		ReleaseBuffer(overlayBuf)
	}
}

// applyTailReset appends tailReset to every line within the visible
// viewport [firstVisible, firstVisible+termHeight). Lines already frozen in
// scrollback are never touched, since they're never re-emitted anyway.
func applyTailReset(buf *RenderBuffer, firstVisible, termHeight int) {
	end := firstVisible + termHeight
	if end > buf.Len() {
		end = buf.Len()
	}
	for i := firstVisible; i < end; i++ {
		buf.Lines[i] += tailReset
	}
}

// extractCursorPosition finds the CursorMarker in lines, removes it,
// and returns (row, col). Returns (-1, -1) if not found.
func extractCursorPosition(lines []string) (row, col int) {
	for i, line := range lines {
		idx := strings.Index(line, CursorMarker)
		if idx >= 0 {
			before := line[:idx]
			after := line[idx+len(CursorMarker):]
			lines[i] = before + after
			return i, width.VisibleWidth(before)
		}
	}
	return -1, -1
}

// renderState tracks cursor position and scrollback accounting across renders.
type renderState struct {
	// maxLinesRendered is the monotone high-water mark of total output lines
	// ever produced since the last clear. It never decreases on its own; it
	// only grows when a frame produces more lines than any frame before it.
	maxLinesRendered int

	// emittedScrollbackLines counts how many logical lines have permanently
	// scrolled out of the terminal's addressable screen and into native
	// scrollback. It gates the growth step so re-rendering unchanged
	// content never re-emits the same scrolled-away lines.
	emittedScrollbackLines int

	// hardwareCursorRow is screen-relative (0 = top of the visible
	// viewport). -1 means the terminal's actual cursor row is unknown
	// (e.g. right after a resize), forcing the next relative move to
	// re-home instead of trusting a stale delta.
	hardwareCursorRow int

	// firstVisibleRowPrevious is the viewport top used for the frame just
	// committed; kept for parity with the renderer-state model even though
	// this implementation recomputes it fresh from maxLinesRendered.
	firstVisibleRowPrevious int

	lastWidth, lastHeight int // last_terminal_size; a change forces a reset
	forceFullRedraw       bool
}

// emitGrowth scrolls newly-rendered top-of-content lines into permanent
// scrollback once currentCount exceeds the high-water mark, idempotently
// (emittedScrollbackLines gates re-emission on unchanged frames).
func emitGrowth(b *strings.Builder, numBuf []byte, rstate *renderState, lines []string, currentCount, termHeight int) {
	if currentCount <= rstate.maxLinesRendered {
		return
	}
	scrollEnd := currentCount - termHeight
	for i := rstate.maxLinesRendered; i < scrollEnd; i++ {
		if i < rstate.emittedScrollbackLines {
			continue
		}
		moveCursor(b, numBuf, rstate.hardwareCursorRow, termHeight-1)
		rstate.hardwareCursorRow = termHeight - 1
		b.WriteByte('\r')
		if i < len(lines) {
			b.WriteString(lines[i])
		}
		b.WriteString("\r\n")
		rstate.emittedScrollbackLines = i + 1
	}
	rstate.maxLinesRendered = currentCount
}

// emitShrink clears screen rows that showed content last frame but have
// nothing to show now, bounded to the rows that were actually on screen
// (never referencing anything below firstVisible, i.e. already-scrolled
// history).
func emitShrink(b *strings.Builder, numBuf []byte, rstate *renderState, prev []string, currentCount, firstVisible, termHeight int) {
	if currentCount >= len(prev) {
		return
	}
	from := currentCount
	if from < firstVisible {
		from = firstVisible
	}
	to := len(prev)
	if to > firstVisible+termHeight {
		to = firstVisible + termHeight
	}
	for contentRow := from; contentRow < to; contentRow++ {
		screenRow := contentRow - firstVisible
		moveCursor(b, numBuf, rstate.hardwareCursorRow, screenRow)
		rstate.hardwareCursorRow = screenRow
		b.WriteString("\r\x1b[2K")
	}
}

// emitDiff walks the visible screen rows and rewrites any whose content
// changed (or is newly within the viewport), using relative cursor motion.
func emitDiff(b *strings.Builder, numBuf []byte, rstate *renderState, prev, curr []string, currentCount, firstVisible, termHeight int) {
	for screenRow := 0; screenRow < termHeight; screenRow++ {
		contentRow := firstVisible + screenRow
		if contentRow >= currentCount {
			continue
		}
		if contentRow < len(prev) && prev[contentRow] == curr[contentRow] {
			continue
		}
		moveCursor(b, numBuf, rstate.hardwareCursorRow, screenRow)
		rstate.hardwareCursorRow = screenRow
		b.WriteString("\r\x1b[2K")
		b.WriteString(curr[contentRow])
	}
}

// moveCursor emits relative cursor movement sequences to move from fromRow
// to toRow, both screen-relative. A negative fromRow means the terminal's
// actual cursor position is unknown (e.g. right after a resize); homing
// first establishes a known row 0 before computing the relative delta,
// since absolute positioning is otherwise never used once content may have
// scrolled into history.
func moveCursor(b *strings.Builder, numBuf []byte, fromRow, toRow int) {
	if fromRow < 0 {
		b.WriteString("\x1b[H")
		fromRow = 0
	}
	delta := toRow - fromRow
	if delta == 0 {
		return
	}
	if delta < 0 {
		b.WriteString("\x1b[")
		b.Write(strconv.AppendInt(numBuf[:0], int64(-delta), 10))
		b.WriteByte('A')
	} else {
		b.WriteString("\x1b[")
		b.Write(strconv.AppendInt(numBuf[:0], int64(delta), 10))
		b.WriteByte('B')
	}
}
