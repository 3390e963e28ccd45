package ui

import "github.com/llehouerou/mediadash/internal/input"

// Rect is an area of the screen in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p input.Point) bool {
	x, y := float64(p.X), float64(p.Y)
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: max(r.W-2*d, 0), H: max(r.H-2*d, 0)}
}

// SplitTop returns the top h pixels of r and the rest.
func (r Rect) SplitTop(h float64) (top, rest Rect) {
	h = min(max(h, 0), r.H)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: h}, Rect{X: r.X, Y: r.Y + h, W: r.W, H: r.H - h}
}

// Screen is the full landscape display.
func Screen() Rect {
	return Rect{W: input.ScreenWidth, H: input.ScreenHeight}
}

// Base provides the bounds and focus state shared by components.
// Embed it in component models to get the standard methods.
type Base struct {
	bounds  Rect
	focused bool
}

// SetFocused sets whether the component receives input.
func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused returns whether the component receives input.
func (b Base) IsFocused() bool {
	return b.focused
}

// SetBounds places the component.
func (b *Base) SetBounds(r Rect) {
	b.bounds = r
}

// Bounds returns the component area.
func (b Base) Bounds() Rect {
	return b.bounds
}

// Rows returns how many rows of height rowHeight fit in the bounds.
func (b Base) Rows(rowHeight float64) int {
	if rowHeight <= 0 {
		return 0
	}
	return int(b.bounds.H / rowHeight)
}
