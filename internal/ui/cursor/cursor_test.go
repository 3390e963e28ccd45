package cursor

import (
	"testing"

	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
)

func TestNewAndReset(t *testing.T) {
	c := New(5)
	if c.Pos() != 0 || c.Offset() != 0 || c.Margin() != 5 {
		t.Errorf("New(5) = pos %d offset %d margin %d, want 0 0 5", c.Pos(), c.Offset(), c.Margin())
	}

	c.pos, c.offset = 5, 3
	c.Reset()
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("Reset() = (%d, %d), want (0, 0)", c.Pos(), c.Offset())
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		margin     int
		initial    int
		delta      int
		len        int
		height     int
		wantPos    int
		wantOffset int
	}{
		{"move down within bounds no scroll", 2, 0, 1, 10, 5, 1, 0},
		{"move down triggers scroll with margin", 2, 0, 3, 10, 5, 3, 1},
		{"move up clamps to 0", 2, 2, -5, 10, 5, 0, 0},
		{"move down clamps to len-1", 2, 5, 15, 10, 5, 9, 5},
		{"move triggers scroll down", 2, 2, 3, 10, 5, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.margin)
			c.pos = tt.initial
			c.Move(tt.delta, tt.len, tt.height)
			if c.Pos() != tt.wantPos {
				t.Errorf("Move() pos = %d, want %d", c.Pos(), tt.wantPos)
			}
			if c.Offset() != tt.wantOffset {
				t.Errorf("Move() offset = %d, want %d", c.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestMoveEmptyList(t *testing.T) {
	c := New(2)
	c.pos = 5
	c.Move(1, 0, 5)
	if c.Pos() != 5 {
		t.Errorf("Move() on empty list changed pos to %d", c.Pos())
	}
}

func TestJump(t *testing.T) {
	c := New(2)
	for _, tt := range []struct{ to, want int }{{5, 5}, {100, 9}, {-5, 0}} {
		c.Jump(tt.to, 10, 5)
		if c.Pos() != tt.want {
			t.Errorf("Jump(%d) pos = %d, want %d", tt.to, c.Pos(), tt.want)
		}
	}
}

func TestEnsureVisible(t *testing.T) {
	tests := []struct {
		name       string
		margin     int
		pos        int
		offset     int
		len        int
		height     int
		wantOffset int
	}{
		{"cursor in view no change", 2, 5, 3, 10, 5, 3},
		{"cursor above view scrolls up", 2, 1, 5, 10, 5, 0},
		{"cursor below view scrolls down", 2, 8, 0, 10, 5, 5},
		{"tight scrolling no margin", 0, 4, 0, 10, 5, 0},
		{"tight scrolling needs scroll", 0, 5, 0, 10, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.margin)
			c.pos = tt.pos
			c.offset = tt.offset
			c.EnsureVisible(tt.len, tt.height)
			if c.Offset() != tt.wantOffset {
				t.Errorf("EnsureVisible() offset = %d, want %d", c.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		name       string
		pos        int
		len        int
		height     int
		wantOffset int
	}{
		{"center in middle", 5, 10, 5, 3},
		{"center near start", 1, 10, 5, 0},
		{"center near end", 9, 10, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(2)
			c.pos = tt.pos
			c.Center(tt.len, tt.height)
			if c.Offset() != tt.wantOffset {
				t.Errorf("Center() offset = %d, want %d", c.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestClampToBounds(t *testing.T) {
	tests := []struct {
		name        string
		pos         int
		offset      int
		len         int
		wantChanged bool
		wantPos     int
		wantOffset  int
	}{
		{"in bounds no change", 3, 0, 10, false, 3, 0},
		{"pos exceeds len", 8, 5, 5, true, 4, 4},
		{"empty list", 5, 3, 0, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(2)
			c.pos = tt.pos
			c.offset = tt.offset
			changed := c.ClampToBounds(tt.len)
			if changed != tt.wantChanged {
				t.Errorf("ClampToBounds() changed = %v, want %v", changed, tt.wantChanged)
			}
			if c.Pos() != tt.wantPos {
				t.Errorf("ClampToBounds() pos = %d, want %d", c.Pos(), tt.wantPos)
			}
			if c.Offset() != tt.wantOffset {
				t.Errorf("ClampToBounds() offset = %d, want %d", c.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		len       int
		height    int
		wantStart int
		wantEnd   int
	}{
		{"normal range", 2, 10, 5, 2, 7},
		{"at end of list", 7, 10, 5, 7, 10},
		{"empty list", 0, 0, 5, 0, 0},
		{"zero height", 0, 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(2)
			c.offset = tt.offset
			start, end := c.VisibleRange(tt.len, tt.height)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("VisibleRange() = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestMoveWrap(t *testing.T) {
	c := New(0)
	c.Wrap = true
	c.Move(-1, 4, 4)
	if c.Pos() != 3 {
		t.Errorf("Move(-1) wrapped pos = %d, want 3", c.Pos())
	}
	c.Move(2, 4, 4)
	if c.Pos() != 1 {
		t.Errorf("Move(2) wrapped pos = %d, want 1", c.Pos())
	}
	c.Move(-9, 4, 4)
	if c.Pos() != 0 {
		t.Errorf("Move(-9) wrapped pos = %d, want 0", c.Pos())
	}
}

func TestSmallViewportMargin(t *testing.T) {
	// A margin larger than half the view must not pin the offset.
	c := New(5)
	c.Move(3, 10, 3)
	if c.Offset() != 2 {
		t.Errorf("offset = %d, want 2", c.Offset())
	}
}

func TestScrollBy(t *testing.T) {
	tests := []struct {
		name       string
		pos        int
		offset     int
		rows       int
		wantPos    int
		wantOffset int
	}{
		{"scroll down drags cursor", 0, 0, 3, 3, 3},
		{"scroll keeps visible cursor", 5, 3, 1, 5, 4},
		{"scroll up drags cursor", 9, 5, -4, 5, 1},
		{"clamped at end", 6, 5, 10, 6, 5},
		{"clamped at start", 2, 1, -10, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1)
			c.pos, c.offset = tt.pos, tt.offset
			c.ScrollBy(tt.rows, 10, 5)
			if c.Pos() != tt.wantPos || c.Offset() != tt.wantOffset {
				t.Errorf("ScrollBy() = (%d, %d), want (%d, %d)", c.Pos(), c.Offset(), tt.wantPos, tt.wantOffset)
			}
		})
	}
}

func TestSteps(t *testing.T) {
	var in input.State
	if d := Steps(&in); d != 0 {
		t.Errorf("Steps() idle = %d, want 0", d)
	}

	in.ScrollDelta = 2
	in.Buttons[keymap.ButtonDown].Pressed = true
	if d := Steps(&in); d != 3 {
		t.Errorf("Steps() = %d, want 3", d)
	}

	in = input.State{ScrollDelta: -1}
	in.Buttons[keymap.ButtonUp].Pressed = true
	if d := Steps(&in); d != -2 {
		t.Errorf("Steps() = %d, want -2", d)
	}
}

func TestHandleInput(t *testing.T) {
	c := New(1)
	in := input.State{ScrollDelta: 2}
	if !c.HandleInput(&in, 10, 5) {
		t.Error("HandleInput() = false, want true")
	}
	if c.Pos() != 2 {
		t.Errorf("pos = %d, want 2", c.Pos())
	}

	in = input.State{ScrollDelta: -5}
	if !c.HandleInput(&in, 10, 5) {
		t.Error("HandleInput() = false, want true")
	}
	if c.HandleInput(&in, 10, 5) {
		t.Error("HandleInput() at the top = true, want false")
	}
}

func TestRowAt(t *testing.T) {
	c := New(0)
	c.offset = 4

	tests := []struct {
		y      float64
		want   int
		wantOK bool
	}{
		{y: 50, wantOK: false},
		{y: 100, want: 4, wantOK: true},
		{y: 250, want: 5, wantOK: true},
		{y: 100 + 3*100, want: 7, wantOK: true},
		{y: 100 + 5*100, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := c.RowAt(tt.y, 100, 100, 8, 5)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("RowAt(%v) = (%d, %v), want (%d, %v)", tt.y, got, ok, tt.want, tt.wantOK)
		}
	}

	// Rows past the end of the list do not hit.
	if _, ok := c.RowAt(100+4*100, 100, 100, 8, 5); ok {
		t.Error("RowAt() past the list end = true, want false")
	}
}
