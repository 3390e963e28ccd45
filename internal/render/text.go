package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// CellMeasurer approximates text width from terminal cell widths. It is
// used where no font is loaded and in tests.
type CellMeasurer struct {
	// Advance is the width of one cell relative to the font size.
	Advance float64
}

// DefaultCellMeasurer matches the proportions of the bundled UI font.
var DefaultCellMeasurer = CellMeasurer{Advance: 0.5}

// MeasureText returns the approximate width of s at size.
func (m CellMeasurer) MeasureText(s string, size float64) float64 {
	return float64(runewidth.StringWidth(s)) * size * m.Advance
}

// Wrap word-wraps text to maxWidth, producing at most maxLines lines. The
// last line ends with an ellipsis when text remains. Words wider than a
// line are broken at grapheme boundaries.
func Wrap(m Measurer, text string, size, maxWidth float64, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	current := ""
	for len(words) > 0 && len(lines) < maxLines {
		test := words[0]
		if current != "" {
			test = current + " " + words[0]
		}
		if m.MeasureText(test, size) <= maxWidth {
			current = test
			words = words[1:]
			continue
		}
		if current == "" {
			head, tail := splitFit(m, words[0], size, maxWidth)
			current = head
			if tail == "" {
				words = words[1:]
			} else {
				words[0] = tail
			}
		}
		lines = append(lines, current)
		current = ""
	}
	if current != "" {
		lines = append(lines, current)
	}

	if len(words) > 0 {
		last := lines[len(lines)-1]
		if m.MeasureText(last+ellipsis, size) <= maxWidth {
			lines[len(lines)-1] = last + ellipsis
		} else {
			lines[len(lines)-1] = cut(m, last, size, maxWidth)
		}
	}
	return lines
}

// splitFit splits s at the last grapheme boundary that fits maxWidth,
// always keeping at least one grapheme in head.
func splitFit(m Measurer, s string, size, maxWidth float64) (head, tail string) {
	g := uniseg.NewGraphemes(s)
	end := 0
	for g.Next() {
		_, to := g.Positions()
		if end > 0 && m.MeasureText(s[:to], size) > maxWidth {
			break
		}
		end = to
	}
	return s[:end], s[end:]
}

// Truncate shortens s to fit maxWidth, appending an ellipsis when cut.
func Truncate(m Measurer, s string, size, maxWidth float64) string {
	if m.MeasureText(s, size) <= maxWidth {
		return s
	}
	return cut(m, s, size, maxWidth)
}

// cut returns the longest grapheme prefix of s that fits with an ellipsis.
func cut(m Measurer, s string, size, maxWidth float64) string {
	var bounds []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, to := g.Positions()
		bounds = append(bounds, to)
	}
	lo, hi, best := 0, len(bounds)-1, -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if m.MeasureText(s[:bounds[mid]]+ellipsis, size) <= maxWidth {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return ellipsis
	}
	return strings.TrimRight(s[:bounds[best]], " ") + ellipsis
}
