// Package list provides a generic scrollable list component for the
// touch screen.
package list

import (
	"image/color"
	"math"

	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
	"github.com/llehouerou/mediadash/internal/ui/cursor"
)

// Action represents what happened during Update.
type Action int

const (
	ActionNone  Action = iota
	ActionEnter        // select button clicked
	ActionClick        // row tapped (cursor moved to it)
	ActionHold         // select held or row long-pressed
	ActionMoved        // selection changed
)

// Result is returned from Update to tell the parent what happened.
type Result struct {
	Action Action
	Index  int // item the action applies to, -1 if none
}

func none() Result { return Result{Index: -1} }

// RowFunc draws one item into r.
type RowFunc[T any] func(c render.Canvas, item T, index int, r ui.Rect, selected bool)

// Model is a generic scrollable list. It turns input into actions for the
// parent and draws the visible rows through a callback.
type Model[T any] struct {
	ui.Base
	items     []T
	cursor    cursor.Cursor
	rowHeight float64
	dragAccum float64
}

// New creates a list with the given row height.
func New[T any](rowHeight float64) Model[T] {
	m := Model[T]{
		cursor:    cursor.New(ui.ScrollMargin),
		rowHeight: rowHeight,
	}
	m.SetFocused(true)
	return m
}

// SetWrap makes the rotary wrap around the ends.
func (m *Model[T]) SetWrap(wrap bool) {
	m.cursor.Wrap = wrap
}

// SetItems replaces all items and clamps the cursor to bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.cursor.ClampToBounds(len(items))
	m.cursor.EnsureVisible(len(items), m.visibleRows())
}

// Items returns the current items slice.
func (m Model[T]) Items() []T {
	return m.items
}

// Len returns the number of items.
func (m Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the selected item, or false when the list is empty.
func (m Model[T]) Selected() (T, bool) {
	if len(m.items) == 0 || m.cursor.Pos() >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor.Pos()], true
}

// SelectedIndex returns the cursor position.
func (m Model[T]) SelectedIndex() int {
	return m.cursor.Pos()
}

// Select moves the cursor to index and scrolls it into view.
func (m *Model[T]) Select(index int) {
	m.cursor.Jump(index, len(m.items), m.visibleRows())
}

// CenterOn selects index and scrolls it to the middle of the view.
func (m *Model[T]) CenterOn(index int) {
	m.Select(index)
	m.cursor.Center(len(m.items), m.visibleRows())
}

// VisibleRange returns [start, end) indices of the visible rows.
func (m Model[T]) VisibleRange() (start, end int) {
	return m.cursor.VisibleRange(len(m.items), m.visibleRows())
}

// AtEnd reports whether the last item is visible, for lazy paging.
func (m Model[T]) AtEnd() bool {
	_, end := m.VisibleRange()
	return end >= len(m.items)
}

func (m Model[T]) visibleRows() int {
	return max(m.Rows(m.rowHeight), 1)
}

// Update handles one frame of input.
func (m *Model[T]) Update(in *input.State) Result {
	if !m.IsFocused() {
		return none()
	}
	n, rows := len(m.items), m.visibleRows()
	bounds := m.Bounds()

	if in.DragActive && bounds.Contains(in.DragStart) {
		// Dragging up scrolls down.
		m.dragAccum -= float64(in.DragDelta.Y)
		if steps := int(m.dragAccum / m.rowHeight); steps != 0 {
			m.dragAccum -= float64(steps) * m.rowHeight
			m.cursor.ScrollBy(steps, n, rows)
		}
	} else {
		m.dragAccum = 0
	}

	switch {
	case in.Tap && bounds.Contains(in.TapPos):
		if idx, ok := m.cursor.RowAt(float64(in.TapPos.Y), bounds.Y, m.rowHeight, n, rows); ok {
			m.cursor.Jump(idx, n, rows)
			return Result{Action: ActionClick, Index: idx}
		}
	case in.Hold && bounds.Contains(in.HoldPos):
		if idx, ok := m.cursor.RowAt(float64(in.HoldPos.Y), bounds.Y, m.rowHeight, n, rows); ok {
			m.cursor.Jump(idx, n, rows)
			return Result{Action: ActionHold, Index: idx}
		}
	case in.SelectPressed && n > 0:
		return Result{Action: ActionEnter, Index: m.cursor.Pos()}
	case in.SelectHold && n > 0:
		return Result{Action: ActionHold, Index: m.cursor.Pos()}
	}

	if m.cursor.HandleInput(in, n, rows) {
		return Result{Action: ActionMoved, Index: m.cursor.Pos()}
	}
	return none()
}

// Draw paints the visible rows, the selection highlight and a scrollbar
// when the list overflows.
func (m Model[T]) Draw(c render.Canvas, highlight color.Color, row RowFunc[T]) {
	bounds := m.Bounds()
	start, end := m.VisibleRange()
	for i := start; i < end; i++ {
		r := ui.Rect{X: bounds.X, Y: bounds.Y + float64(i-start)*m.rowHeight, W: bounds.W, H: m.rowHeight}
		selected := i == m.cursor.Pos()
		if selected && highlight != nil {
			c.FillRoundedRect(r.X, r.Y+3, r.W, r.H-6, ui.Corner, highlight)
		}
		row(c, m.items[i], i, r, selected)
	}

	n, rows := len(m.items), m.visibleRows()
	if n <= rows {
		return
	}
	trackH := float64(rows) * m.rowHeight
	thumbH := math.Max(trackH*float64(rows)/float64(n), 24)
	thumbY := bounds.Y + (trackH-thumbH)*float64(start)/float64(n-rows)
	c.FillRoundedRect(bounds.X+bounds.W-4, thumbY, 4, thumbH, 2, render.WithAlpha(color.White, 0.35))
}
