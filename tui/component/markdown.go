// ABOUTME: Terminal markdown renderer that converts markdown to ANSI-styled text
// ABOUTME: Supports bold, italic, code, headers, lists, links, and fenced code blocks

//go:build flowterm_markdown

package component

import (
	"regexp"
	"strings"

	"github.com/flowterm/flowterm/tui"
	"github.com/flowterm/flowterm/tui/internal/ansitrack"
)

const (
	ansiBold      = "\x1b[1m"
	ansiItalic    = "\x1b[3m"
	ansiDim       = "\x1b[2m"
	ansiUnderline = "\x1b[4m"
	ansiCyan      = "\x1b[36m"
	ansiReset     = "\x1b[0m"
)

var reLink = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// emphasisMarker describes a symmetric inline delimiter (the token that
// both opens and closes it) and the SGR codes it applies while active.
type emphasisMarker struct {
	token string
	codes []string
}

// Order matters: "**" must be tried before "*" so bold isn't mistaken for
// the start of an italic run.
var emphasisMarkers = []emphasisMarker{
	{token: "**", codes: []string{ansiBold}},
	{token: "`", codes: []string{ansiDim, ansiCyan}},
	{token: "*", codes: []string{ansiItalic}},
}

// Markdown renders markdown-formatted text with ANSI styling.
type Markdown struct {
	content string
	dirty   bool
	cached  []string
}

// NewMarkdown creates a Markdown component with the given content.
func NewMarkdown(content string) *Markdown {
	return &Markdown{content: content, dirty: true}
}

// SetContent updates the markdown content.
func (md *Markdown) SetContent(content string) {
	md.content = content
	md.dirty = true
}

// Invalidate marks the component for re-render.
func (md *Markdown) Invalidate() {
	md.dirty = true
}

// Render writes the styled markdown lines into the buffer.
func (md *Markdown) Render(out *tui.RenderBuffer, _ int) {
	if md.dirty {
		md.cached = md.renderLines()
		md.dirty = false
	}
	out.WriteLines(md.cached)
}

func (md *Markdown) renderLines() []string {
	if md.content == "" {
		return []string{""}
	}

	raw := strings.Split(md.content, "\n")
	var result []string
	inCodeBlock := false
	var codeLang string

	for i := 0; i < len(raw); i++ {
		line := raw[i]

		// Fenced code block toggle
		if strings.HasPrefix(line, "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeLang = strings.TrimPrefix(line, "```")
				codeLang = strings.TrimSpace(codeLang)
				if codeLang != "" {
					result = append(result, ansiDim+"    ["+codeLang+"]"+ansiReset)
				}
				continue
			}
			inCodeBlock = false
			continue
		}

		if inCodeBlock {
			result = append(result, "    "+ansiDim+line+ansiReset)
			continue
		}

		// Headers
		if h, level := parseHeader(line); level > 0 {
			styled := ansiBold + ansiCyan + h + ansiReset
			result = append(result, styled)
			continue
		}

		// Unordered list (- or *)
		if trimmed := strings.TrimSpace(line); (strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")) {
			content := trimmed[2:]
			styled := "  \u2022 " + md.renderInline(content)
			result = append(result, styled)
			continue
		}

		// Ordered list (1. 2. etc)
		if isOrderedListItem(line) {
			idx := strings.Index(line, ". ")
			if idx > 0 {
				num := strings.TrimSpace(line[:idx])
				content := line[idx+2:]
				styled := "  " + num + ". " + md.renderInline(content)
				result = append(result, styled)
				continue
			}
		}

		// Empty line (paragraph break)
		if strings.TrimSpace(line) == "" {
			result = append(result, "")
			continue
		}

		// Regular text with inline formatting
		result = append(result, md.renderInline(line))
	}

	return result
}

func (md *Markdown) renderInline(s string) string {
	// Links first: the delimiter isn't symmetric, so it doesn't fit the
	// marker scanner below.
	s = reLink.ReplaceAllString(s, ansiUnderline+"$1"+ansiReset)
	return renderEmphasis(s)
}

// styleScope records an open emphasis marker and the SGR sequence needed
// to resume whatever style was active before it opened.
type styleScope struct {
	token  string
	resume string
}

// renderEmphasis applies bold/italic/code styling in a single left-to-right
// pass. A nested marker (e.g. `code` inside **bold**) resets only back to
// the enclosing style on close, via an ansitrack.Tracker snapshot taken at
// open time, instead of a flat reset that would also drop the outer style.
func renderEmphasis(s string) string {
	var out strings.Builder
	var tracker ansitrack.Tracker
	var stack []styleScope

	r := []rune(s)
	for i := 0; i < len(r); {
		marker, consumed := matchEmphasisMarker(r, i)
		if marker == nil {
			out.WriteRune(r[i])
			i++
			continue
		}

		if len(stack) > 0 && stack[len(stack)-1].token == marker.token {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out.WriteString(ansiReset)
			tracker.Reset()
			if top.resume != "" {
				tracker.Process(top.resume)
				out.WriteString(top.resume)
			}
			i += consumed
			continue
		}

		resume := tracker.Restore()
		for _, code := range marker.codes {
			tracker.Process(code)
			out.WriteString(code)
		}
		stack = append(stack, styleScope{token: marker.token, resume: resume})
		i += consumed
	}

	// An unterminated marker (malformed input) still needs its styling closed.
	if len(stack) > 0 {
		out.WriteString(ansiReset)
	}
	return out.String()
}

// matchEmphasisMarker reports the emphasis marker starting at r[i], if any,
// and how many runes it consumes.
func matchEmphasisMarker(r []rune, i int) (*emphasisMarker, int) {
	for idx := range emphasisMarkers {
		m := &emphasisMarkers[idx]
		tok := []rune(m.token)
		if i+len(tok) > len(r) {
			continue
		}
		match := true
		for j, tr := range tok {
			if r[i+j] != tr {
				match = false
				break
			}
		}
		if match {
			return m, len(tok)
		}
	}
	return nil, 0
}

func parseHeader(line string) (string, int) {
	if strings.HasPrefix(line, "### ") {
		return line[4:], 3
	}
	if strings.HasPrefix(line, "## ") {
		return line[3:], 2
	}
	if strings.HasPrefix(line, "# ") {
		return line[2:], 1
	}
	return "", 0
}

func isOrderedListItem(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return false
	}
	for i, c := range trimmed {
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '.' && i > 0 && i+1 < len(trimmed) && trimmed[i+1] == ' ' {
			return true
		}
		break
	}
	return false
}
