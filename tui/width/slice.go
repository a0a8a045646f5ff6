// ABOUTME: Column-based string slicing with ANSI-awareness
// ABOUTME: SliceByColumn extracts a visual range from styled text, preserving
// ABOUTME: SGR state across the cut and replacing straddled wide glyphs with a space

package width

import "github.com/rivo/uniseg"

// SliceByColumn extracts the substring from column start (inclusive) to
// column end (exclusive), preserving ANSI escape sequences. Columns are
// zero-indexed visual positions.
//
// Any SGR (color/style) state still active at column start is re-emitted at
// the beginning of the result, so a slice that cuts into the middle of a
// styled run stays styled. If any SGR state is active at column end, the
// result is closed with a plain reset so the cut never leaks style into
// whatever is spliced after it. A double-width grapheme cluster that
// straddles start or end cannot be partially rendered, so it is replaced
// with a single space to preserve column alignment.
func SliceByColumn(s string, start, end int) string {
	if start >= end || s == "" {
		return ""
	}

	segments := extractSegments(s)
	var result []byte
	var sgr ActiveSGR
	opened := false

	for _, seg := range segments {
		if seg.isSeq {
			// A sequence at or beyond the cut point has no bearing on what's
			// visible in the slice or on the SGR state active at its end.
			if seg.col >= end {
				continue
			}
			sgr.Apply(seg.text)
			// Sequences before the slice start are captured by the
			// reconstructed prefix below, not emitted a second time.
			if opened {
				result = append(result, seg.text...)
			}
			continue
		}

		segEnd := seg.col + seg.width
		if segEnd <= start || seg.col >= end {
			continue
		}

		if !opened {
			if prefix := sgr.String(); prefix != "" {
				result = append(result, prefix...)
			}
			opened = true
		}

		if seg.col < start || segEnd > end {
			// Straddles a boundary: a wide glyph can't be partially shown.
			result = append(result, ' ')
			continue
		}

		result = append(result, seg.text...)
	}

	if opened && sgr.String() != "" {
		result = append(result, "\x1b[0m"...)
	}

	return string(result)
}

// segment represents either a visible grapheme cluster or an ANSI sequence.
type segment struct {
	text  string
	col   int
	width int
	isSeq bool
}

// extractSegments breaks a string into segments of visible text and ANSI sequences.
func extractSegments(s string) []segment {
	var segs []segment
	col := 0
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			segs = append(segs, segment{text: s[i:end], col: col, isSeq: true})
			i = end
			continue
		}
		// Read one grapheme cluster
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		w := graphemeWidth(cluster)
		segs = append(segs, segment{text: cluster, col: col, width: w})
		col += w
		i += len(s[i:]) - len(rest)
	}
	return segs
}
