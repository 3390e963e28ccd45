package input

import (
	"testing"
	"time"

	"github.com/llehouerou/mediadash/internal/keymap"
)

// identity maps raw (rx, ry) so that landscape (lx, ly) = (ry, 479-rx).
func identity() Transform {
	return Transform{X: AxisRange{0, 479}, Y: AxisRange{0, 799}}
}

func newTestPipeline(bl Backlight) *Pipeline {
	return NewPipeline(Config{Transform: identity()}, bl, nil)
}

var t0 = time.Unix(1000, 0)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func key(code uint16, value int32) RawEvent {
	return RawEvent{Type: EvKey, Code: code, Value: value}
}

func syn() RawEvent { return RawEvent{Type: EvSyn, Code: SynReport} }

// touchAt returns events placing the finger at landscape (lx, ly).
func touchAt(lx, ly int, down int) []RawEvent {
	evs := []RawEvent{
		{Type: EvAbs, Code: AbsX, Value: int32(479 - ly)},
		{Type: EvAbs, Code: AbsY, Value: int32(lx)},
	}
	switch down {
	case 1:
		evs = append(evs, key(BtnTouch, 1))
	case -1:
		evs = append(evs, key(BtnTouch, 0))
	}
	return append(evs, syn())
}

type fakeBacklight struct{ toggles int }

func (f *fakeBacklight) ToggleBacklight() error { f.toggles++; return nil }

func TestPipeline_ButtonHold(t *testing.T) {
	p := newTestPipeline(nil)
	up := keymap.Key1

	st := p.Feed(at(0), key(up, 1))
	if !st.Buttons[keymap.ButtonUp].Down {
		t.Fatal("button1 Down = false at press")
	}

	holds := 0
	for ms := 16; ms < 600; ms += 16 {
		st = p.Feed(at(ms))
		b := st.Buttons[keymap.ButtonUp]
		if b.Hold {
			holds++
			if ms < 500 {
				t.Errorf("hold fired early at %dms", ms)
			}
			if b.HoldTime < 0.5 || b.HoldTime > 0.52 {
				t.Errorf("HoldTime at hold = %v, want ≈ 0.5", b.HoldTime)
			}
		}
	}
	if holds != 1 {
		t.Errorf("hold fired %d times, want 1", holds)
	}

	st = p.Feed(at(600), key(up, 0))
	b := st.Buttons[keymap.ButtonUp]
	if b.Pressed {
		t.Error("click emitted after a hold")
	}
	if !b.Released || b.Down {
		t.Errorf("after release: Released=%v Down=%v", b.Released, b.Down)
	}

	st = p.Feed(at(616))
	if b := st.Buttons[keymap.ButtonUp]; b.Down || b.Released {
		t.Errorf("next frame: Down=%v Released=%v, want false", b.Down, b.Released)
	}
}

func TestPipeline_ButtonClick(t *testing.T) {
	p := newTestPipeline(nil)

	p.Feed(at(0), key(keymap.Key2, 1))
	st := p.Feed(at(200), key(keymap.Key2, 0))
	b := st.Buttons[keymap.ButtonDown]
	if !b.Pressed || !b.Released || b.Hold {
		t.Errorf("click = %+v, want Pressed and Released", b)
	}

	st = p.Feed(at(216))
	if st.Buttons[keymap.ButtonDown].Pressed {
		t.Error("Pressed lasted more than one frame")
	}
}

func TestPipeline_SelectAliases(t *testing.T) {
	p := newTestPipeline(nil)

	p.Feed(at(0), key(keymap.KeyEnter, 1))
	st := p.Feed(at(100), key(keymap.KeyEnter, 0))
	if !st.SelectPressed || !st.PlayPausePressed {
		t.Errorf("SelectPressed=%v PlayPausePressed=%v, want both", st.SelectPressed, st.PlayPausePressed)
	}

	p.Feed(at(1000), key(keymap.KeyEnter, 1))
	st = p.Feed(at(1600))
	if !st.SelectHold || st.SelectPressed {
		t.Errorf("hold: SelectHold=%v SelectPressed=%v", st.SelectHold, st.SelectPressed)
	}
	st = p.Feed(at(1700), key(keymap.KeyEnter, 0))
	if st.SelectPressed || st.PlayPausePressed {
		t.Error("release after hold emitted a click")
	}
}

func TestPipeline_BackClick(t *testing.T) {
	p := newTestPipeline(nil)
	p.Feed(at(0), key(keymap.KeyEsc, 1))
	st := p.Feed(at(50), key(keymap.KeyEsc, 0))
	if !st.BackPressed {
		t.Error("BackPressed = false")
	}
}

func TestPipeline_ScreenshotTogglesBacklight(t *testing.T) {
	bl := &fakeBacklight{}
	p := newTestPipeline(bl)

	p.Feed(at(0), key(keymap.KeySysRq, 1))
	st := p.Feed(at(100), key(keymap.KeySysRq, 0))
	if !st.Buttons[5].Pressed {
		t.Error("screenshot click not reported at index 5")
	}
	if bl.toggles != 1 {
		t.Errorf("toggles = %d, want 1", bl.toggles)
	}

	// A hold does not toggle.
	p.Feed(at(1000), key(keymap.KeySysRq, 1))
	p.Feed(at(1600))
	p.Feed(at(1700), key(keymap.KeySysRq, 0))
	if bl.toggles != 1 {
		t.Errorf("toggles after hold = %d, want 1", bl.toggles)
	}
}

func TestPipeline_Rotary(t *testing.T) {
	p := newTestPipeline(nil)
	st := p.Feed(at(0),
		RawEvent{Type: EvRel, Code: RelHWheel, Value: 1},
		RawEvent{Type: EvRel, Code: RelHWheel, Value: 1},
		RawEvent{Type: EvRel, Code: RelHWheel, Value: -3},
		syn(),
	)
	if st.ScrollDelta != -1 {
		t.Errorf("ScrollDelta = %d, want -1", st.ScrollDelta)
	}
	if st = p.Feed(at(16)); st.ScrollDelta != 0 {
		t.Errorf("ScrollDelta next frame = %d, want 0", st.ScrollDelta)
	}
}

func TestPipeline_TapAndDoubleTap(t *testing.T) {
	p := newTestPipeline(nil)

	st := p.Feed(at(0), touchAt(400, 240, 1)...)
	if !st.MouseJustPressed || !st.DragActive || st.DragStart != (Point{400, 240}) {
		t.Fatalf("press: %+v", st)
	}
	st = p.Feed(at(100), touchAt(405, 242, -1)...)
	if !st.Tap || st.DoubleTap || !st.MouseJustReleased || st.DragActive {
		t.Fatalf("first release: Tap=%v DoubleTap=%v", st.Tap, st.DoubleTap)
	}

	p.Feed(at(200), touchAt(402, 240, 1)...)
	st = p.Feed(at(300), touchAt(402, 240, -1)...)
	if !st.DoubleTap || st.Tap {
		t.Errorf("second release: Tap=%v DoubleTap=%v, want only DoubleTap", st.Tap, st.DoubleTap)
	}

	// Too late for a double tap.
	p.Feed(at(1000), touchAt(402, 240, 1)...)
	st = p.Feed(at(1050), touchAt(402, 240, -1)...)
	if !st.Tap || st.DoubleTap {
		t.Errorf("third release: Tap=%v DoubleTap=%v, want Tap", st.Tap, st.DoubleTap)
	}
}

func TestPipeline_Swipes(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		check    func(*State) bool
	}{
		{"left", Point{500, 240}, Point{300, 250}, func(s *State) bool { return s.SwipeLeft }},
		{"right", Point{300, 240}, Point{500, 230}, func(s *State) bool { return s.SwipeRight }},
		{"up", Point{400, 400}, Point{410, 100}, func(s *State) bool { return s.SwipeUp }},
		{"down", Point{400, 100}, Point{390, 400}, func(s *State) bool { return s.SwipeDown }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(nil)
			p.Feed(at(0), touchAt(tt.from.X, tt.from.Y, 1)...)
			p.Feed(at(100), touchAt((tt.from.X+tt.to.X)/2, (tt.from.Y+tt.to.Y)/2, 0)...)
			st := p.Feed(at(400), touchAt(tt.to.X, tt.to.Y, -1)...)

			if !tt.check(st) {
				t.Errorf("swipe %s not detected", tt.name)
			}
			n := 0
			for _, b := range []bool{st.SwipeLeft, st.SwipeRight, st.SwipeUp, st.SwipeDown} {
				if b {
					n++
				}
			}
			if n != 1 || st.Tap || st.Hold {
				t.Errorf("exclusivity: swipes=%d tap=%v hold=%v", n, st.Tap, st.Hold)
			}
			if st.SwipeStart != tt.from || st.SwipeEnd != tt.to {
				t.Errorf("swipe points = %v -> %v, want %v -> %v", st.SwipeStart, st.SwipeEnd, tt.from, tt.to)
			}
		})
	}
}

func TestPipeline_NoGestureForShortSlowMove(t *testing.T) {
	p := newTestPipeline(nil)
	p.Feed(at(0), touchAt(400, 240, 1)...)
	st := p.Feed(at(500), touchAt(450, 240, -1)...)
	if st.Tap || st.AnySwipe() || st.Hold {
		t.Errorf("50px in 500ms classified: %+v", st)
	}
}

func TestPipeline_TouchHold(t *testing.T) {
	p := newTestPipeline(nil)
	p.Feed(at(0), touchAt(400, 240, 1)...)

	holds := 0
	for ms := 16; ms <= 1000; ms += 16 {
		if st := p.Feed(at(ms)); st.Hold {
			holds++
			if ms <= 700 {
				t.Errorf("hold fired at %dms", ms)
			}
		}
	}
	if holds != 1 {
		t.Errorf("hold fired %d times, want 1", holds)
	}

	// Moving away after a hold never yields a swipe.
	p.Feed(at(1016), touchAt(600, 240, 0)...)
	st := p.Feed(at(1032), touchAt(600, 240, -1)...)
	if st.AnySwipe() || st.Tap {
		t.Errorf("release after hold: swipe=%v tap=%v", st.AnySwipe(), st.Tap)
	}
}

func TestPipeline_Drag(t *testing.T) {
	p := newTestPipeline(nil)
	p.Feed(at(0), touchAt(100, 100, 1)...)

	st := p.Feed(at(16), touchAt(110, 130, 0)...)
	if !st.DragActive || st.DragCurrent != (Point{110, 130}) || st.DragDelta != (Point{10, 30}) {
		t.Errorf("drag frame 1: active=%v current=%v delta=%v", st.DragActive, st.DragCurrent, st.DragDelta)
	}
	if st.DragStart != (Point{100, 100}) {
		t.Errorf("DragStart = %v, want {100 100}", st.DragStart)
	}

	st = p.Feed(at(32))
	if st.DragDelta != (Point{}) {
		t.Errorf("DragDelta without movement = %v, want zero", st.DragDelta)
	}

	st = p.Feed(at(48), touchAt(110, 130, -1)...)
	if st.DragActive {
		t.Error("DragActive after release")
	}
}

func TestPipeline_TouchDebounce(t *testing.T) {
	p := NewPipeline(Config{Transform: identity(), TouchDebounce: DefaultTouchDebounce}, nil, nil)

	p.Feed(at(0), touchAt(400, 240, 1)...)
	p.Feed(at(50), touchAt(400, 240, -1)...)

	bounce := append(touchAt(400, 240, 1), touchAt(400, 240, -1)...)
	for i := range bounce {
		bounce[i].Time = at(51)
	}
	st := p.Feed(at(51), bounce...)
	if st.MouseJustPressed || st.Tap {
		t.Errorf("bounced press registered: pressed=%v tap=%v", st.MouseJustPressed, st.Tap)
	}

	st = p.Feed(at(100), touchAt(400, 240, 1)...)
	if !st.MouseJustPressed {
		t.Error("press after the debounce window ignored")
	}
}

func TestPipeline_DebounceDisabledByDefault(t *testing.T) {
	p := newTestPipeline(nil)
	p.Feed(at(0), touchAt(400, 240, 1)...)
	p.Feed(at(50), touchAt(400, 240, -1)...)

	evs := touchAt(400, 240, 1)
	for i := range evs {
		evs[i].Time = at(50)
	}
	if st := p.Feed(at(51), evs...); !st.MouseJustPressed {
		t.Error("press right after release ignored with debounce disabled")
	}
}

type fakeSource struct {
	batches [][]RawEvent
	closed  bool
}

func (f *fakeSource) Poll() ([]RawEvent, error) {
	if len(f.batches) == 0 {
		return nil, nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

func (f *fakeSource) Close() error { f.closed = true; return nil }

func TestPipeline_UpdateDrainsSources(t *testing.T) {
	rotary := &fakeSource{batches: [][]RawEvent{{{Type: EvRel, Code: RelHWheel, Value: 2}}}}
	buttons := &fakeSource{batches: [][]RawEvent{{key(keymap.KeyEnter, 1)}}}
	p := NewPipeline(Config{Transform: identity()}, nil, nil, rotary, buttons)

	st := p.Update(at(0))
	if st.ScrollDelta != 2 || !st.Select.Down {
		t.Errorf("Update: ScrollDelta=%d Select.Down=%v", st.ScrollDelta, st.Select.Down)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !rotary.closed || !buttons.closed {
		t.Error("sources not closed")
	}
}
