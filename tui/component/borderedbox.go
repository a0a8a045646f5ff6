// ABOUTME: BorderedBox draws a box-drawing-character frame around a child component
// ABOUTME: Optional title is measured with width.VisibleWidth, never len(), so styled titles fit the top border

package component

import (
	"strings"

	"github.com/flowterm/flowterm/tui"
	"github.com/flowterm/flowterm/tui/theme"
	"github.com/flowterm/flowterm/tui/width"
)

const (
	boxTopLeft     = "╭"
	boxTopRight    = "╮"
	boxBottomLeft  = "╰"
	boxBottomRight = "╯"
	boxHorizontal  = "─"
	boxVertical    = "│"
)

// BorderedBox wraps a child component in a single-line-weight rounded
// frame with an optional title embedded in the top border.
type BorderedBox struct {
	Child tui.Component
	Title string
}

// NewBorderedBox creates a BorderedBox around the given child component.
func NewBorderedBox(child tui.Component) *BorderedBox {
	return &BorderedBox{Child: child}
}

// Render draws the frame and the child inset by one column/row on each side.
func (b *BorderedBox) Render(out *tui.RenderBuffer, w int) {
	if w < 2 {
		return
	}
	innerWidth := w - 2
	border := theme.Current().Palette.Border

	out.WriteLine(b.topBorder(innerWidth, border))

	childBuf := tui.AcquireBuffer()
	defer tui.ReleaseBuffer(childBuf)

	if b.Child != nil {
		b.Child.Render(childBuf, innerWidth)
	}

	for _, line := range childBuf.Lines {
		padded := width.TruncateToWidth(line, innerWidth, "…", true)
		out.WriteLine(border.Apply(boxVertical) + padded + border.Apply(boxVertical))
	}

	out.WriteLine(bottomBorder(innerWidth, border))
}

// topBorder renders the top edge, splicing in the title (truncated to fit,
// measured by visible width so ANSI-styled titles are never over-counted)
// after a short left-hand rule.
func (b *BorderedBox) topBorder(innerWidth int, border theme.Color) string {
	if b.Title == "" {
		return border.Apply(boxTopLeft + strings.Repeat(boxHorizontal, innerWidth) + boxTopRight)
	}

	const leftRule = 2
	title := " " + b.Title + " "
	maxTitleWidth := innerWidth - leftRule
	if maxTitleWidth < 0 {
		maxTitleWidth = 0
	}
	title = width.TruncateToWidth(title, maxTitleWidth, "…", false)

	rightRule := innerWidth - leftRule - width.VisibleWidth(title)
	if rightRule < 0 {
		rightRule = 0
	}

	var line strings.Builder
	line.WriteString(boxTopLeft)
	line.WriteString(strings.Repeat(boxHorizontal, leftRule))
	line.WriteString(title)
	line.WriteString(strings.Repeat(boxHorizontal, rightRule))
	line.WriteString(boxTopRight)
	return border.Apply(line.String())
}

func bottomBorder(innerWidth int, border theme.Color) string {
	return border.Apply(boxBottomLeft + strings.Repeat(boxHorizontal, innerWidth) + boxBottomRight)
}

// Invalidate invalidates the child.
func (b *BorderedBox) Invalidate() {
	if b.Child != nil {
		b.Child.Invalidate()
	}
}
