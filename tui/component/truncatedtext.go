// ABOUTME: Single-line text display with ellipsis truncation
// ABOUTME: Truncates to terminal width when content exceeds available space

package component

import (
	"github.com/flowterm/flowterm/tui"
	"github.com/flowterm/flowterm/tui/width"
)

// TruncatedText renders a single line, truncating with ellipsis if needed.
// Ellipsis defaults to "…" and Pad defaults to false (no right-padding);
// both can be set directly for callers that need fixed-width rows, e.g. a
// list or table where every row must occupy exactly w columns.
type TruncatedText struct {
	content  string
	Ellipsis string
	Pad      bool
}

// NewTruncatedText creates a TruncatedText with the given content.
func NewTruncatedText(content string) *TruncatedText {
	return &TruncatedText{content: content, Ellipsis: "…"}
}

// SetContent updates the text.
func (t *TruncatedText) SetContent(content string) {
	t.content = content
}

// Render writes the truncated line into the buffer.
func (t *TruncatedText) Render(out *tui.RenderBuffer, w int) {
	ellipsis := t.Ellipsis
	if ellipsis == "" {
		ellipsis = "…"
	}
	out.WriteLine(width.TruncateToWidth(t.content, w, ellipsis, t.Pad))
}

// Invalidate is a no-op for TruncatedText.
func (t *TruncatedText) Invalidate() {}
