// ABOUTME: Overlay types for modal content rendered on top of the main container
// ABOUTME: Supports anchor/corner positioning, margins, offsets, size clamps, and focus capture

package tui

// Anchor defines which edge or corner of the viewport an overlay is
// positioned against.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Margin sets a per-side gap between the overlay and the viewport edge it
// is anchored against. A zero Margin applies no gap.
type Margin struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Overlay represents a modal component rendered on top of the main container.
//
// Width and WidthPercent are mutually exclusive: if WidthPercent is > 0 it
// takes precedence and is resolved against the terminal width at render
// time; otherwise Width is used as an absolute column count, and 0 means
// "use the terminal width".
type Overlay struct {
	Component Component
	Anchor    Anchor

	Width        int // 0 means use terminal width, ignored if WidthPercent > 0
	WidthPercent int // 1-100; resolved against terminal width when > 0
	Height       int // 0 means auto-size from render output

	MinWidth  int
	MaxWidth  int
	MaxHeight int

	OffsetX int
	OffsetY int
	Margin  Margin

	// previousFocus holds whatever component held focus when this overlay
	// was pushed, so it can be restored when the overlay is popped.
	previousFocus Focusable
}

// resolveWidth computes the overlay's column span against the terminal width.
func (o Overlay) resolveWidth(termWidth int) int {
	w := o.Width
	if o.WidthPercent > 0 {
		w = (termWidth * o.WidthPercent) / 100
	}
	if w <= 0 {
		w = termWidth
	}
	if o.MinWidth > 0 && w < o.MinWidth {
		w = o.MinWidth
	}
	if o.MaxWidth > 0 && w > o.MaxWidth {
		w = o.MaxWidth
	}
	if w > termWidth {
		w = termWidth
	}
	if w < 0 {
		w = 0
	}
	return w
}

// resolveHeight clamps a rendered overlay's line count against MaxHeight
// and the caller-supplied Height override.
func (o Overlay) resolveHeight(rendered int) int {
	h := rendered
	if o.Height > 0 && h > o.Height {
		h = o.Height
	}
	if o.MaxHeight > 0 && h > o.MaxHeight {
		h = o.MaxHeight
	}
	return h
}

// resolvePosition computes the top-left (row, col) of the overlay within a
// termWidth x termHeight viewport, given its resolved ow x oh size.
func (o Overlay) resolvePosition(ow, oh, termWidth, termHeight int) (row, col int) {
	switch o.Anchor {
	case AnchorTop:
		row, col = o.Margin.Top, (termWidth-ow)/2
	case AnchorBottom:
		row, col = termHeight-oh-o.Margin.Bottom, (termWidth-ow)/2
	case AnchorLeft:
		row, col = (termHeight-oh)/2, o.Margin.Left
	case AnchorRight:
		row, col = (termHeight-oh)/2, termWidth-ow-o.Margin.Right
	case AnchorTopLeft:
		row, col = o.Margin.Top, o.Margin.Left
	case AnchorTopRight:
		row, col = o.Margin.Top, termWidth-ow-o.Margin.Right
	case AnchorBottomLeft:
		row, col = termHeight-oh-o.Margin.Bottom, o.Margin.Left
	case AnchorBottomRight:
		row, col = termHeight-oh-o.Margin.Bottom, termWidth-ow-o.Margin.Right
	default: // AnchorCenter
		row, col = (termHeight-oh)/2, (termWidth-ow)/2
	}

	row += o.OffsetY
	col += o.OffsetX

	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if row+oh > termHeight {
		row = termHeight - oh
		if row < 0 {
			row = 0
		}
	}
	if col+ow > termWidth {
		col = termWidth - ow
		if col < 0 {
			col = 0
		}
	}
	return row, col
}
