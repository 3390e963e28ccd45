package input

import (
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/keymap"
)

// DefaultTouchDebounce is the intended press-after-release window. The
// pipeline ships with debounce disabled.
const DefaultTouchDebounce = 2 * time.Millisecond

// Backlight is toggled by the screenshot button.
type Backlight interface {
	ToggleBacklight() error
}

// Config tunes the pipeline.
type Config struct {
	// TouchDebounce ignores touch presses this soon after a release.
	// Zero disables it.
	TouchDebounce time.Duration
	Transform     Transform
	Keys          *keymap.Resolver
}

// Pipeline owns the input sources and produces one State per frame. It is
// not safe for concurrent use.
type Pipeline struct {
	sources   []Source
	cfg       Config
	backlight Backlight
	log       *zap.Logger

	state State
	touch touchTracker

	// Touch values accumulated until the next SYN_REPORT.
	pendingX, pendingY int32
	pendingPos         bool
	pendingDown        int // -1 up, 0 unchanged, 1 down
	lastRelease        time.Time
	debounced          bool
	prevPos            Point
}

// NewPipeline creates a pipeline reading from sources. backlight may be nil.
func NewPipeline(cfg Config, backlight Backlight, log *zap.Logger, sources ...Source) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Keys == nil {
		cfg.Keys = keymap.Default()
	}
	return &Pipeline{
		sources:   sources,
		cfg:       cfg,
		backlight: backlight,
		log:       log.Named("input"),
	}
}

// SetTransform replaces the touch calibration.
func (p *Pipeline) SetTransform(t Transform) {
	p.cfg.Transform = t
}

// State returns the snapshot of the last Update.
func (p *Pipeline) State() *State {
	return &p.state
}

// Close closes every source.
func (p *Pipeline) Close() error {
	var firstErr error
	for _, s := range p.sources {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.sources = nil
	return firstErr
}

// Update drains the sources and folds their events into the snapshot. A
// failing source is logged and skipped; the others keep working.
func (p *Pipeline) Update(now time.Time) *State {
	p.state.clearEdges()

	for _, src := range p.sources {
		events, err := src.Poll()
		if err != nil {
			p.log.Warn("poll input source", zap.Error(err))
		}
		for _, ev := range events {
			p.handle(ev, now)
		}
	}
	p.flushTouch(now)
	p.tick(now)
	return &p.state
}

// Feed processes events directly, for synthetic sources.
func (p *Pipeline) Feed(now time.Time, events ...RawEvent) *State {
	p.state.clearEdges()
	for _, ev := range events {
		p.handle(ev, now)
	}
	p.flushTouch(now)
	p.tick(now)
	return &p.state
}

func eventTime(ev RawEvent, now time.Time) time.Time {
	if ev.Time.IsZero() {
		return now
	}
	return ev.Time
}

func (p *Pipeline) handle(ev RawEvent, now time.Time) {
	at := eventTime(ev, now)
	switch ev.Type {
	case EvKey:
		switch ev.Code {
		case BtnTouch, BtnLeft:
			if ev.Value == keyPress {
				p.pendingDown = 1
			} else if ev.Value == keyRelease {
				p.pendingDown = -1
			}
		default:
			p.handleKey(ev, at)
		}
	case EvRel:
		if ev.Code == RelHWheel || ev.Code == RelWheel {
			p.state.ScrollDelta += int(ev.Value)
		}
	case EvAbs:
		switch ev.Code {
		case AbsX, AbsMTPositionX:
			p.pendingX = ev.Value
			p.pendingPos = true
		case AbsY, AbsMTPositionY:
			p.pendingY = ev.Value
			p.pendingPos = true
		case AbsMTTrackingID:
			if ev.Value < 0 {
				p.pendingDown = -1
			} else {
				p.pendingDown = 1
			}
		}
	case EvSyn:
		if ev.Code == SynReport {
			p.flushTouch(at)
		}
	}
}

func (p *Pipeline) handleKey(ev RawEvent, at time.Time) {
	b := p.cfg.Keys.Resolve(ev.Code)
	var bs *ButtonState
	switch {
	case b.Trackable():
		bs = &p.state.Buttons[b]
	case b == keymap.ButtonBack:
		bs = &p.state.Back
	case b == keymap.ButtonSelect:
		bs = &p.state.Select
	default:
		return
	}

	switch ev.Value {
	case keyPress:
		if bs.Down {
			return
		}
		bs.Down = true
		bs.pressedAt = at
		bs.holdFired = false
		bs.HoldTime = 0
	case keyRelease:
		if !bs.Down {
			return
		}
		held := at.Sub(bs.pressedAt)
		bs.Down = false
		bs.Released = true
		bs.HoldTime = 0
		if held < ButtonHoldThreshold {
			bs.Pressed = true
			p.clicked(b)
		} else if !bs.holdFired {
			// The frame loop missed the threshold; report the hold now.
			bs.holdFired = true
			bs.Hold = true
			p.held(b)
		}
	}
}

func (p *Pipeline) clicked(b keymap.Button) {
	switch b {
	case keymap.ButtonBack:
		p.state.BackPressed = true
	case keymap.ButtonSelect:
		p.state.SelectPressed = true
		p.state.PlayPausePressed = true
	case keymap.ButtonScreenshot:
		if p.backlight != nil {
			if err := p.backlight.ToggleBacklight(); err != nil {
				p.log.Warn("toggle backlight", zap.Error(err))
			}
		}
	}
}

func (p *Pipeline) held(b keymap.Button) {
	if b == keymap.ButtonSelect {
		p.state.SelectHold = true
	}
}

// tick advances hold timers and fires hold events.
func (p *Pipeline) tick(now time.Time) {
	buttons := make([]*ButtonState, 0, keymap.TrackableButtons+2)
	for i := range p.state.Buttons {
		buttons = append(buttons, &p.state.Buttons[i])
	}
	buttons = append(buttons, &p.state.Back, &p.state.Select)

	for i, bs := range buttons {
		if !bs.Down {
			continue
		}
		held := now.Sub(bs.pressedAt)
		bs.HoldTime = held.Seconds()
		if held >= ButtonHoldThreshold && !bs.holdFired {
			bs.holdFired = true
			bs.Hold = true
			if i == len(buttons)-1 {
				p.held(keymap.ButtonSelect)
			}
		}
	}

	if p.touch.active && p.touch.checkHold(p.state.Pos, now) {
		p.state.Hold = true
		p.state.HoldPos = p.state.Pos
	}
}

// flushTouch applies the touch values of one SYN_REPORT frame.
func (p *Pipeline) flushTouch(at time.Time) {
	if p.pendingPos {
		p.state.Pos = p.cfg.Transform.Apply(p.pendingX, p.pendingY)
		p.pendingPos = false
	}
	down := p.pendingDown
	p.pendingDown = 0

	switch {
	case down > 0 && !p.state.TouchDown && !p.debounced:
		if p.cfg.TouchDebounce > 0 && !p.lastRelease.IsZero() &&
			at.Sub(p.lastRelease) < p.cfg.TouchDebounce {
			p.debounced = true
			p.log.Debug("touch press debounced")
			return
		}
		p.state.TouchDown = true
		p.state.MouseJustPressed = true
		p.state.DragActive = true
		p.state.DragStart = p.state.Pos
		p.state.DragCurrent = p.state.Pos
		p.prevPos = p.state.Pos
		p.touch.press(p.state.Pos, at)
	case down < 0 && p.debounced:
		p.debounced = false
		p.lastRelease = at
	case down < 0 && p.state.TouchDown:
		p.state.TouchDown = false
		p.state.MouseJustReleased = true
		p.state.DragActive = false
		p.lastRelease = at
		p.applyGesture(p.touch.release(p.state.Pos, at))
	}

	if p.state.TouchDown {
		p.state.DragCurrent = p.state.Pos
		d := p.state.Pos.Sub(p.prevPos)
		p.state.DragDelta = Point{p.state.DragDelta.X + d.X, p.state.DragDelta.Y + d.Y}
		p.prevPos = p.state.Pos
	}
}

func (p *Pipeline) applyGesture(g Gesture) {
	switch g {
	case GestureTap:
		p.state.Tap = true
		p.state.TapPos = p.state.Pos
	case GestureDoubleTap:
		p.state.DoubleTap = true
		p.state.TapPos = p.state.Pos
	case GestureHold:
		p.state.Hold = true
		p.state.HoldPos = p.state.Pos
	case GestureSwipeLeft, GestureSwipeRight, GestureSwipeUp, GestureSwipeDown:
		p.state.SwipeLeft = g == GestureSwipeLeft
		p.state.SwipeRight = g == GestureSwipeRight
		p.state.SwipeUp = g == GestureSwipeUp
		p.state.SwipeDown = g == GestureSwipeDown
		p.state.SwipeStart = p.touch.start
		p.state.SwipeEnd = p.state.Pos
	}
	if g != GestureNone {
		p.log.Debug("gesture", zap.Stringer("gesture", g))
	}
}
