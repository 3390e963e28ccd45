package list

import (
	"image/color"
	"testing"

	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/render/rendertest"
	"github.com/llehouerou/mediadash/internal/ui"
)

func newList(n int) Model[string] {
	m := New[string](100)
	m.SetBounds(ui.Rect{X: 0, Y: 80, W: 800, H: 400}) // four rows
	items := make([]string, n)
	for i := range items {
		items[i] = string(rune('a' + i))
	}
	m.SetItems(items)
	return m
}

func TestUpdate_RotaryMoves(t *testing.T) {
	m := newList(10)
	res := m.Update(&input.State{ScrollDelta: 3})
	if res.Action != ActionMoved || res.Index != 3 {
		t.Errorf("Update() = %+v, want moved to 3", res)
	}
	if got, _ := m.Selected(); got != "d" {
		t.Errorf("Selected() = %q, want %q", got, "d")
	}
	if start, end := m.VisibleRange(); start != 1 || end != 5 {
		t.Errorf("VisibleRange() = (%d, %d), want (1, 5) to keep one row below", start, end)
	}

	var in input.State
	in.Buttons[keymap.ButtonDown].Pressed = true
	m.Update(&in)
	if start, _ := m.VisibleRange(); start != 2 {
		t.Errorf("VisibleRange() start = %d, want 2", start)
	}
}

func TestUpdate_SelectAndHold(t *testing.T) {
	m := newList(3)
	m.Select(2)

	if res := m.Update(&input.State{SelectPressed: true}); res.Action != ActionEnter || res.Index != 2 {
		t.Errorf("select = %+v, want enter on 2", res)
	}
	if res := m.Update(&input.State{SelectHold: true}); res.Action != ActionHold || res.Index != 2 {
		t.Errorf("hold = %+v, want hold on 2", res)
	}

	empty := newList(0)
	if res := empty.Update(&input.State{SelectPressed: true}); res.Action != ActionNone {
		t.Errorf("select on empty list = %+v, want none", res)
	}
}

func TestUpdate_TapSelectsRow(t *testing.T) {
	m := newList(10)
	res := m.Update(&input.State{Tap: true, TapPos: input.Point{X: 400, Y: 80 + 250}})
	if res.Action != ActionClick || res.Index != 2 {
		t.Errorf("tap = %+v, want click on 2", res)
	}
	if m.SelectedIndex() != 2 {
		t.Errorf("SelectedIndex() = %d, want 2", m.SelectedIndex())
	}

	// Taps on the header are ignored.
	res = m.Update(&input.State{Tap: true, TapPos: input.Point{X: 400, Y: 20}})
	if res.Action != ActionNone {
		t.Errorf("tap outside = %+v, want none", res)
	}
}

func TestUpdate_DragScrolls(t *testing.T) {
	m := newList(10)
	in := input.State{
		DragActive: true,
		DragStart:  input.Point{X: 400, Y: 400},
		DragDelta:  input.Point{Y: -60},
	}
	m.Update(&in)
	if start, _ := m.VisibleRange(); start != 0 {
		t.Fatalf("scrolled after %d px, want a full row first", 60)
	}
	m.Update(&in)
	if start, _ := m.VisibleRange(); start != 1 {
		t.Errorf("VisibleRange() start = %d, want 1", start)
	}
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex() = %d, want 1 (dragged along)", m.SelectedIndex())
	}

	m.Update(&input.State{})
	in.DragDelta = input.Point{Y: 60}
	m.Update(&in)
	if start, _ := m.VisibleRange(); start != 1 {
		t.Error("a new drag must not reuse the previous remainder")
	}
}

func TestSetItems_ClampsCursor(t *testing.T) {
	m := newList(10)
	m.Select(9)
	m.SetItems([]string{"x", "y"})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex() = %d, want 1", m.SelectedIndex())
	}
	if !m.AtEnd() {
		t.Error("AtEnd() = false for a short list")
	}
}

func TestUnfocusedIgnoresInput(t *testing.T) {
	m := newList(5)
	m.SetFocused(false)
	if res := m.Update(&input.State{ScrollDelta: 1}); res.Action != ActionNone {
		t.Errorf("Update() = %+v, want none", res)
	}
}

func TestDraw(t *testing.T) {
	m := newList(10)
	m.Select(1)
	rec := rendertest.New()

	var drawn []int
	m.Draw(rec, color.White, func(c render.Canvas, item string, i int, r ui.Rect, selected bool) {
		drawn = append(drawn, i)
		if selected != (i == 1) {
			t.Errorf("row %d selected = %v", i, selected)
		}
		if want := 80 + float64(i)*100; r.Y != want {
			t.Errorf("row %d y = %v, want %v", i, r.Y, want)
		}
		c.Text(item, r.X, r.Y, 20, color.White, render.AlignLeft)
	})

	if len(drawn) != 4 {
		t.Errorf("drew %d rows, want 4", len(drawn))
	}
	// highlight + scrollbar
	if got := rec.Count("rrect"); got != 2 {
		t.Errorf("rounded rects = %d, want 2", got)
	}
}
