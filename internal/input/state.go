package input

import (
	"math"
	"time"

	"github.com/llehouerou/mediadash/internal/keymap"
)

// Point is a landscape pixel position.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	d := p.Sub(q)
	return math.Hypot(float64(d.X), float64(d.Y))
}

// ButtonState is the per-frame view of one button. Pressed, Hold and
// Released are true for exactly one frame.
type ButtonState struct {
	Down     bool
	Pressed  bool // released before the hold threshold
	Hold     bool // hold threshold crossed
	Released bool
	HoldTime float64 // seconds since press while Down

	pressedAt time.Time
	holdFired bool
}

func (b *ButtonState) clearEdges() {
	b.Pressed = false
	b.Hold = false
	b.Released = false
}

// State is the input snapshot for one frame.
type State struct {
	Buttons [keymap.TrackableButtons]ButtonState
	Back    ButtonState
	Select  ButtonState

	// Aliases set on a short click.
	BackPressed      bool
	SelectPressed    bool
	PlayPausePressed bool
	SelectHold       bool

	// Rotary ticks this frame, sign preserved.
	ScrollDelta int

	TouchDown         bool
	Pos               Point
	MouseJustPressed  bool
	MouseJustReleased bool

	DragActive  bool
	DragStart   Point
	DragCurrent Point
	DragDelta   Point

	Tap       bool
	DoubleTap bool
	TapPos    Point
	Hold      bool
	HoldPos   Point

	SwipeLeft  bool
	SwipeRight bool
	SwipeUp    bool
	SwipeDown  bool
	SwipeStart Point
	SwipeEnd   Point
}

// Button returns the state of a trackable button, or a zero state.
func (s *State) Button(b keymap.Button) ButtonState {
	if !b.Trackable() {
		switch b {
		case keymap.ButtonBack:
			return s.Back
		case keymap.ButtonSelect:
			return s.Select
		}
		return ButtonState{}
	}
	return s.Buttons[b]
}

// AnySwipe reports whether a swipe was classified this frame.
func (s *State) AnySwipe() bool {
	return s.SwipeLeft || s.SwipeRight || s.SwipeUp || s.SwipeDown
}

func (s *State) clearEdges() {
	for i := range s.Buttons {
		s.Buttons[i].clearEdges()
	}
	s.Back.clearEdges()
	s.Select.clearEdges()

	s.BackPressed = false
	s.SelectPressed = false
	s.PlayPausePressed = false
	s.SelectHold = false
	s.ScrollDelta = 0
	s.MouseJustPressed = false
	s.MouseJustReleased = false
	s.DragDelta = Point{}
	s.Tap = false
	s.DoubleTap = false
	s.Hold = false
	s.SwipeLeft = false
	s.SwipeRight = false
	s.SwipeUp = false
	s.SwipeDown = false
}
