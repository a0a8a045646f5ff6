// ABOUTME: ANSI-aware text wrapping and truncation
// ABOUTME: WrapTextWithAnsi wraps at word boundaries, falling back to a hard
// ABOUTME: break only when a single word exceeds maxWidth; TruncateToWidth adds ellipsis

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// wrapPiece is either a grapheme cluster (isEscape == false, with its
// visible width) or a passthrough ANSI escape sequence (isEscape == true,
// width always 0).
type wrapPiece struct {
	text     string
	width    int
	isEscape bool
	isSpace  bool
}

// WrapTextWithAnsi wraps s into lines of at most maxWidth visible columns.
// ANSI escape sequences are preserved and do not count toward width.
// Wrapping prefers the last whitespace boundary on the current line,
// dropping the breaking space itself; a single word longer than maxWidth
// is hard-broken mid-word since there is no boundary to break at.
func WrapTextWithAnsi(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}

	var lines []string
	var pieces []wrapPiece
	currentWidth := 0
	lastBreak := -1 // index into pieces of the last whitespace cluster seen
	var sgr ActiveSGR
	freshFromWrap := false // true right after a word-boundary/hard break, before any content lands

	flush := func(upTo int) {
		var b strings.Builder
		for _, p := range pieces[:upTo] {
			b.WriteString(p.text)
		}
		lines = append(lines, b.String())
	}

	startNewLine := func(carry []wrapPiece) {
		pieces = pieces[:0]
		currentWidth = 0
		lastBreak = -1
		if prefix := sgr.String(); prefix != "" {
			pieces = append(pieces, wrapPiece{text: prefix, isEscape: true})
		}
		for _, p := range carry {
			pieces = append(pieces, p)
			if !p.isEscape {
				currentWidth += p.width
			}
		}
	}

	i := 0
	for i < len(s) {
		if s[i] == '\n' {
			flush(len(pieces))
			startNewLine(nil)
			freshFromWrap = false
			i++
			continue
		}

		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			seq := s[i:end]
			sgr.Apply(seq)
			pieces = append(pieces, wrapPiece{text: seq, isEscape: true})
			i = end
			continue
		}

		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		w := graphemeWidth(cluster)
		isSpace := isSpaceCluster(cluster)

		if currentWidth+w > maxWidth {
			if lastBreak >= 0 {
				flush(lastBreak)
				startNewLine(pieces[lastBreak+1:])
			} else {
				flush(len(pieces))
				startNewLine(nil)
			}
			freshFromWrap = true
		}

		if isSpace && freshFromWrap && currentWidth == 0 {
			// Dropped: a line never starts with the space that wrapped it.
			i += len(s[i:]) - len(rest)
			continue
		}
		freshFromWrap = false

		if isSpace {
			lastBreak = len(pieces)
		}
		pieces = append(pieces, wrapPiece{text: cluster, width: w, isSpace: isSpace})
		currentWidth += w
		i += len(s[i:]) - len(rest)
	}

	flush(len(pieces))
	return lines
}

// isSpaceCluster reports whether a grapheme cluster is a breakable space.
func isSpaceCluster(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return r == ' ' || r == '\t'
}

// TruncateToWidth truncates s to at most maxWidth visible columns, using
// ellipsis as the truncation marker (a caller-supplied string, not
// necessarily a single column wide) and right-padding the result with
// spaces to exactly maxWidth when pad is true and s is shorter than
// maxWidth. If ellipsis is itself as wide as or wider than maxWidth,
// truncation degrades to showing as much of ellipsis as fits.
func TruncateToWidth(s string, maxWidth int, ellipsis string, pad bool) string {
	if maxWidth <= 0 {
		return ""
	}
	ellipsisWidth := VisibleWidth(ellipsis)
	w := VisibleWidth(s)

	if w <= maxWidth {
		if pad && w < maxWidth {
			return s + strings.Repeat(" ", maxWidth-w)
		}
		return s
	}

	if ellipsisWidth >= maxWidth {
		return TruncateToWidth(ellipsis, maxWidth, "", false)
	}

	var b strings.Builder
	col := 0
	target := maxWidth - ellipsisWidth
	i := 0
	for i < len(s) && col < target {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		cw := graphemeWidth(cluster)
		if col+cw > target {
			break
		}
		b.WriteString(cluster)
		col += cw
		i += len(s[i:]) - len(rest)
	}
	b.WriteString("\x1b[0m") // Reset before ellipsis
	b.WriteString(ellipsis)

	if pad && col+ellipsisWidth < maxWidth {
		b.WriteString(strings.Repeat(" ", maxWidth-col-ellipsisWidth))
	}
	return b.String()
}
