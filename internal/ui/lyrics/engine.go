// Package lyrics scrolls synced lyrics in time with playback and turns
// drags on the lyrics into seeks.
package lyrics

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/lyrics"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
)

const (
	scrollEase     = 0.12 // per 60 Hz frame
	highlightRate  = 4.0  // per second
	dragSeekFactor = 1.5
	edgeFadeHeight = 60.0

	// SeekCooldown suppresses position tracking after a seek while the
	// command travels to the phone and back.
	SeekCooldown = 1500 * time.Millisecond
)

// Status messages shown instead of lyrics.
const (
	MsgLoading  = "Loading lyrics…"
	MsgNone     = "No lyrics available"
	MsgNoneHint = "Long-press Select on Now Playing to request lyrics"
	MsgDisabled = "Lyrics are turned off"
)

// State is what the engine is showing.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
)

// Seeker receives drag-to-seek results. *media.Service satisfies it.
type Seeker interface {
	SeekTo(ctx context.Context, seconds int) bool
}

// Rect is the lyrics viewport.
type Rect = ui.Rect

// Colors used to draw lines.
type Colors struct {
	Text    color.Color
	Current color.Color
	Status  color.Color
}

// DefaultColors are used until SetColors is called.
var DefaultColors = Colors{
	Text:    color.NRGBA{R: 220, G: 220, B: 230, A: 255},
	Current: color.White,
	Status:  color.NRGBA{R: 160, G: 160, B: 170, A: 255},
}

type dragState struct {
	active      bool
	startY      float64
	startScroll float64
	startLine   int
}

// Engine holds loaded lyrics and their scroll state. It is driven from the
// frame loop only.
type Engine struct {
	seeker   Seeker
	measurer render.Measurer
	view     Rect
	colors   Colors

	lyr    *lyrics.Lyrics
	layout layout
	state  State

	style    DisplayStyle
	mode     VisibilityMode
	fontStep int

	current   int
	scroll    float64
	target    float64
	highlight float64

	position time.Duration
	duration time.Duration

	drag          dragState
	cooldownUntil time.Time
	lastSeek      int

	// Stale latch: set on track change while lyrics of the previous track
	// are shown, cleared when lyrics with a different hash arrive.
	priorHash string
}

// Option configures an Engine.
type Option func(*Engine)

// WithViewport sets the lyrics area; the default is the full 800×480 screen.
func WithViewport(r Rect) Option {
	return func(e *Engine) { e.view = r }
}

// WithFontStep selects one of FontSteps for the current line.
func WithFontStep(i int) Option {
	return func(e *Engine) { e.SetFontStep(i) }
}

// New creates an engine.
func New(seeker Seeker, m render.Measurer, opts ...Option) *Engine {
	e := &Engine{
		seeker:   seeker,
		measurer: m,
		view:     Rect{W: input.ScreenWidth, H: input.ScreenHeight},
		colors:   DefaultColors,
		current:  -1,
		fontStep: 1,
		lastSeek: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load parses a lyrics payload and loads it. It reports whether anything
// was parsed, whether there are lines, and whether they are synced.
func (e *Engine) Load(data []byte) (loaded, hasLines, synced bool) {
	l, err := lyrics.ParseJSON(data)
	if err != nil {
		return false, false, false
	}
	e.SetLyrics(l)
	return true, l.HasLines(), l.IsSynced()
}

// SetLyrics replaces the loaded lyrics. Lyrics carrying the hash latched on
// the last track change are the previous track's and are ignored.
func (e *Engine) SetLyrics(l *lyrics.Lyrics) {
	if e.priorHash != "" {
		if l == nil || l.Hash == e.priorHash {
			return
		}
		e.priorHash = ""
	}

	e.lyr = l
	e.drag = dragState{}
	e.current = -1
	e.scroll, e.target = 0, 0
	e.highlight = 0
	if !l.HasLines() {
		e.layout = layout{}
		e.state = StateEmpty
		return
	}
	e.state = StateLoaded
	e.relayout()
	e.track()
	e.scroll = e.target
}

// Clear drops the loaded lyrics.
func (e *Engine) Clear() {
	e.priorHash = ""
	e.lyr = nil
	e.layout = layout{}
	e.state = StateEmpty
	e.current = -1
	e.drag = dragState{}
}

// TrackChanged latches the loaded hash so the old lyrics are replaced by a
// loading message until lyrics with a different hash arrive.
func (e *Engine) TrackChanged() {
	if e.lyr != nil && e.lyr.Hash != "" {
		e.priorHash = e.lyr.Hash
		e.lyr = nil
		e.layout = layout{}
		e.state = StateLoading
	} else {
		e.state = StateEmpty
	}
	e.current = -1
	e.drag = dragState{}
	e.cooldownUntil = time.Time{}
}

func (e *Engine) relayout() {
	if e.lyr == nil {
		return
	}
	e.layout = buildLayout(e.measurer, e.lyr.Lines, BaseFontSize, e.view.W-2*SideMargin)
}

// State returns what the engine is showing.
func (e *Engine) State() State { return e.state }

// Lyrics returns the loaded lyrics, nil when none.
func (e *Engine) Lyrics() *lyrics.Lyrics { return e.lyr }

// Hash returns the loaded lyrics hash.
func (e *Engine) Hash() string {
	if e.lyr == nil {
		return ""
	}
	return e.lyr.Hash
}

// Stale reports whether the engine is waiting for the new track's lyrics.
func (e *Engine) Stale() bool { return e.priorHash != "" }

// Current returns the current line index, -1 when none.
func (e *Engine) Current() int { return e.current }

// Scroll returns the eased scroll offset.
func (e *Engine) Scroll() float64 { return e.scroll }

// TotalHeight returns the height of all laid out lines.
func (e *Engine) TotalHeight() float64 { return e.layout.total }

// Highlight returns the current-line highlight progress.
func (e *Engine) Highlight() float64 { return e.highlight }

// Dragging reports whether a drag-to-seek is in progress.
func (e *Engine) Dragging() bool { return e.drag.active }

// InCooldown reports whether position tracking is suspended after a seek.
func (e *Engine) InCooldown(now time.Time) bool { return now.Before(e.cooldownUntil) }

// LastSeek returns the seconds of the last emitted seek, -1 if none.
func (e *Engine) LastSeek() int { return e.lastSeek }

// Style returns the display style.
func (e *Engine) Style() DisplayStyle { return e.style }

// SetStyle sets the display style; leaving Centered cancels a drag.
func (e *Engine) SetStyle(s DisplayStyle) {
	if s < 0 || s >= numDisplayStyles {
		return
	}
	e.style = s
	if s != StyleCentered {
		e.drag = dragState{}
	}
}

// Visibility returns the visibility mode.
func (e *Engine) Visibility() VisibilityMode { return e.mode }

// SetVisibility sets the visibility mode.
func (e *Engine) SetVisibility(v VisibilityMode) {
	if v >= 0 && v < numVisibilityModes {
		e.mode = v
	}
}

// FontStep returns the configured size step.
func (e *Engine) FontStep() int { return e.fontStep }

// SetFontStep selects the current-line size step.
func (e *Engine) SetFontStep(i int) {
	e.fontStep = min(max(i, 0), len(FontSteps)-1)
}

// SetColors sets the line colours.
func (e *Engine) SetColors(c Colors) { e.colors = c }

// CurrentSize returns the current-line font size.
func (e *Engine) CurrentSize() float64 { return BaseFontSize + FontSteps[e.fontStep] }

// SetPosition records the playback position and track duration.
func (e *Engine) SetPosition(pos, duration time.Duration) {
	e.position = pos
	e.duration = duration
}

func (e *Engine) canDrag() bool {
	return e.style == StyleCentered && e.lyr.IsSynced() && !e.drag.active
}

// Update advances the engine by dt seconds. in may be nil.
func (e *Engine) Update(ctx context.Context, in *input.State, dt float64, now time.Time) {
	if e.state != StateLoaded {
		return
	}

	if in != nil {
		e.handleInput(ctx, in, now)
	}

	if !e.drag.active && !e.InCooldown(now) {
		e.track()
	}

	if !e.drag.active && dt > 0 {
		k := 1 - math.Pow(1-scrollEase, dt*60)
		e.scroll += (e.target - e.scroll) * k
		if math.Abs(e.target-e.scroll) < 0.25 {
			e.scroll = e.target
		}
	}
	if dt > 0 {
		e.highlight = math.Min(1, e.highlight+highlightRate*dt)
	}
}

// track follows the playback position.
func (e *Engine) track() {
	if !e.lyr.IsSynced() {
		e.target = 0
		return
	}
	idx := e.lyr.LineAt(e.position)
	if idx != e.current {
		e.current = idx
		e.highlight = 0
	}
	e.target = e.layout.offset(e.current)
}

func (e *Engine) handleInput(ctx context.Context, in *input.State, now time.Time) {
	switch {
	case in.MouseJustPressed && e.canDrag() && e.view.Contains(in.Pos):
		if in.MouseJustReleased {
			// Pressed and released within one frame: a tap, nothing to drag.
			return
		}
		e.drag = dragState{
			active:      true,
			startY:      float64(in.Pos.Y),
			startScroll: e.scroll,
			startLine:   e.current,
		}
	case e.drag.active && in.MouseJustReleased:
		e.dragTo(float64(in.Pos.Y))
		e.release(ctx, now)
	case e.drag.active && in.TouchDown:
		e.dragTo(float64(in.Pos.Y))
	case e.drag.active:
		// Touch lost without a release event.
		e.drag = dragState{}
		e.target = e.layout.offset(e.current)
	}
}

func (e *Engine) dragTo(y float64) {
	s := e.drag.startScroll + (e.drag.startY-y)*dragSeekFactor
	e.scroll = math.Max(0, math.Min(s, e.layout.total))
	if i := e.layout.nearest(e.scroll); i >= 0 && i != e.current {
		e.current = i
	}
	e.highlight = 1
}

func (e *Engine) release(ctx context.Context, now time.Time) {
	e.drag.active = false
	if e.current < 0 || e.current == e.drag.startLine {
		e.target = e.layout.offset(e.current)
		return
	}
	secs := int(math.Round(e.lyr.Lines[e.current].Time.Seconds()))
	if e.duration > 0 {
		secs = min(secs, int(e.duration/time.Second))
	}
	secs = max(secs, 0)

	e.target = e.layout.offset(e.current)
	e.cooldownUntil = now.Add(SeekCooldown)
	e.lastSeek = secs
	if e.seeker != nil {
		e.seeker.SeekTo(ctx, secs)
	}
}

// Status returns the message to show instead of lyrics, or "" when lyrics
// are drawn. hint is a secondary line.
func (e *Engine) Status() (msg, hint string) {
	switch e.state {
	case StateLoading:
		return MsgLoading, ""
	case StateEmpty:
		return MsgNone, MsgNoneHint
	}
	return "", ""
}

// edgeFade fades lines approaching the top or bottom of the viewport.
func (e *Engine) edgeFade(y float64) float64 {
	top := (y - e.view.Y) / edgeFadeHeight
	bottom := (e.view.Y + e.view.H - y) / edgeFadeHeight
	return math.Max(0, math.Min(1, math.Min(top, bottom)))
}

// anchorY is where the current line's top sits on screen.
func (e *Engine) anchorY() float64 {
	if e.style == StyleLeft {
		return e.view.Y + e.view.H/3
	}
	return e.view.Y + e.view.H/2 - BaseFontSize
}

// Draw renders the lyrics or the status message.
func (e *Engine) Draw(c render.Canvas) {
	if msg, hint := e.Status(); msg != "" {
		cx := e.view.X + e.view.W/2
		cy := e.view.Y + e.view.H/2
		c.Text(msg, cx, cy, BaseFontSize, e.colors.Status, render.AlignCenter)
		if hint != "" {
			c.Text(hint, cx, cy+BaseFontSize*1.5, BaseFontSize*0.6, e.colors.Status, render.AlignCenter)
		}
		return
	}

	other := BaseFontSize
	x, align := e.view.X+e.view.W/2, render.AlignCenter
	if e.style == StyleLeft {
		x, align = e.view.X+SideMargin, render.AlignLeft
	}
	synced := e.lyr.IsSynced()
	base := e.anchorY() - e.scroll

	for i, ln := range e.layout.lines {
		top := base + ln.y
		if top > e.view.Y+e.view.H || top+ln.height < e.view.Y {
			continue
		}

		size, col := other, e.colors.Text
		opacity := 1.0
		if synced {
			opacity = e.mode.Opacity(i - e.current)
			if i == e.current {
				size = other + (e.CurrentSize()-other)*e.highlight
				col = e.colors.Current
			}
		}
		lh := size * LineHeightFactor
		for j, sub := range ln.text {
			cy := top + float64(j)*other*LineHeightFactor + lh/2
			a := opacity * e.edgeFade(cy)
			if a <= 0 || sub == "" {
				continue
			}
			c.Text(sub, x, cy, size, render.WithAlpha(col, a), align)
		}
	}
}
