package lyrics

import (
	"github.com/llehouerou/mediadash/internal/lyrics"
	"github.com/llehouerou/mediadash/internal/render"
)

const (
	BaseFontSize      = 26.0
	MaxWrappedLines   = 4
	SideMargin        = 40.0
	LineHeightFactor  = 1.3
	LineSpacingFactor = 0.4
)

// FontSteps are the current-line size increments over BaseFontSize.
var FontSteps = [...]float64{6, 10, 16, 24}

type lineLayout struct {
	y      float64 // offset from the top of the first line
	height float64 // sub-lines plus spacing
	text   []string
}

type layout struct {
	lines []lineLayout
	total float64
}

// buildLayout wraps every line at size to width and stacks them.
func buildLayout(m render.Measurer, lines []lyrics.Line, size, width float64) layout {
	out := layout{lines: make([]lineLayout, len(lines))}
	y := 0.0
	for i, l := range lines {
		wrapped := render.Wrap(m, l.Text, size, width, MaxWrappedLines)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		h := float64(len(wrapped))*size*LineHeightFactor + size*LineSpacingFactor
		out.lines[i] = lineLayout{y: y, height: h, text: wrapped}
		y += h
	}
	out.total = y
	return out
}

// offset returns the scroll offset that brings line i to the anchor.
func (l layout) offset(i int) float64 {
	if i < 0 || i >= len(l.lines) {
		return 0
	}
	return l.lines[i].y
}

// nearest returns the line whose offset is closest to scroll.
func (l layout) nearest(scroll float64) int {
	best, bestDist := -1, 0.0
	for i, ln := range l.lines {
		d := ln.y - scroll
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
