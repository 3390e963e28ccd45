// Package cursor tracks the selected row and the first visible row of a
// list driven by the rotary encoder, the up/down buttons and touch.
package cursor

import (
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
)

// Cursor manages the selection and scroll offset of a list.
// The list length and the number of visible rows are passed to methods
// rather than stored, since they can change every frame.
type Cursor struct {
	pos    int
	offset int
	margin int // rows kept visible above/below the cursor

	// Wrap makes moves past either end continue from the other.
	Wrap bool
}

// New creates a cursor with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected row.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible row.
func (c Cursor) Offset() int {
	return c.offset
}

// Margin returns the scroll margin.
func (c Cursor) Margin() int {
	return c.margin
}

// Move moves the selection by delta rows. If n is 0, this is a no-op.
func (c *Cursor) Move(delta, n, height int) {
	if n == 0 {
		return
	}
	if c.Wrap {
		c.pos = ((c.pos+delta)%n + n) % n
	} else {
		c.pos = clamp(c.pos+delta, n-1)
	}
	c.ensureVisible(n, height)
}

// Jump selects an absolute row. If n is 0, this is a no-op.
func (c *Cursor) Jump(pos, n, height int) {
	if n == 0 {
		return
	}
	c.pos = clamp(pos, n-1)
	c.ensureVisible(n, height)
}

// EnsureVisible scrolls so the selection is visible.
func (c *Cursor) EnsureVisible(n, height int) {
	c.ensureVisible(n, height)
}

func (c *Cursor) ensureVisible(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)

	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(n-height, 0))
}

// Center scrolls so the selection sits in the middle of the view.
func (c *Cursor) Center(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	c.offset = clamp(c.pos-height/2, max(n-height, 0))
}

// ScrollBy moves the view by rows without wrapping, dragging the selection
// along when it would leave the view.
func (c *Cursor) ScrollBy(rows, n, height int) {
	if n == 0 || height <= 0 {
		return
	}
	c.offset = clamp(c.offset+rows, max(n-height, 0))
	switch {
	case c.pos < c.offset:
		c.pos = c.offset
	case c.pos >= c.offset+height:
		c.pos = min(c.offset+height, n) - 1
	}
}

// ClampToBounds keeps the cursor valid after the list shrank. It reports
// whether the selection moved.
func (c *Cursor) ClampToBounds(n int) bool {
	if n == 0 {
		changed := c.pos != 0 || c.offset != 0
		c.pos, c.offset = 0, 0
		return changed
	}
	old := c.pos
	c.pos = clamp(c.pos, n-1)
	c.offset = clamp(c.offset, c.pos)
	return c.pos != old
}

// VisibleRange returns the visible rows [start, end).
func (c Cursor) VisibleRange(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, n)
}

// Reset selects the first row.
func (c *Cursor) Reset() {
	c.pos, c.offset = 0, 0
}

// Steps returns the selection change requested this frame by the rotary
// encoder and the up/down buttons. Down and clockwise move forward.
func Steps(in *input.State) int {
	d := in.ScrollDelta
	if in.Button(keymap.ButtonUp).Pressed {
		d--
	}
	if in.Button(keymap.ButtonDown).Pressed {
		d++
	}
	return d
}

// HandleInput applies Steps and reports whether the selection moved.
func (c *Cursor) HandleInput(in *input.State, n, height int) bool {
	d := Steps(in)
	if d == 0 || n == 0 {
		return false
	}
	old := c.pos
	c.Move(d, n, height)
	return c.pos != old
}

// RowAt maps a y coordinate to a visible row index, given the y of the
// first visible row and the row height.
func (c Cursor) RowAt(y, top, rowHeight float64, n, height int) (int, bool) {
	if rowHeight <= 0 || y < top {
		return 0, false
	}
	row := int((y - top) / rowHeight)
	if row >= height {
		return 0, false
	}
	idx := c.offset + row
	if idx >= n {
		return 0, false
	}
	return idx, true
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
