package background

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/llehouerou/mediadash/internal/render"
)

const (
	transitionSeconds = 0.65
	flashDecay        = 2.6
	indicatorSeconds  = 1.3
	blurFadeSeconds   = 0.65
	blurRadius        = 6.0
	blurScale         = 4 // blur textures are built at 1/blurScale resolution
)

// Seeder returns a fresh seed pair for procedural layouts.
type Seeder func() (uint64, uint64)

func randomSeeds() (uint64, uint64) {
	return rand.Uint64(), rand.Uint64()
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeeder overrides the seed source.
func WithSeeder(s Seeder) Option {
	return func(e *Engine) { e.seeder = s }
}

type blurSlot struct {
	img   image.Image
	alpha float64
}

// releaser is implemented by canvases that cache scaled images.
type releaser interface {
	Release(img image.Image)
}

// Engine animates the backdrop. It is driven from the frame loop only.
type Engine struct {
	w, h int

	cur, next *scene
	progress  float64 // 0..1 while next != nil
	time      float64
	indicator float64
	flash     float64
	energy    float64

	primary, accent color.Color
	custom          bool
	palette         Palette
	paletteGen      int

	seeder Seeder

	blur     [2]blurSlot // current, previous
	released []image.Image
}

// NewEngine creates an engine for a w×h surface starting in PULSE.
func NewEngine(w, h int, opts ...Option) *Engine {
	e := &Engine{w: w, h: h, seeder: randomSeeds, energy: 0.3}
	for _, opt := range opts {
		opt(e)
	}
	e.cur = e.newScene(Pulse)
	e.regenPalette()
	return e
}

func (e *Engine) newScene(s Style) *scene {
	s1, s2 := e.seeder()
	return newScene(s, rand.New(rand.NewPCG(s1, s2)), e.w, e.h)
}

func (e *Engine) regenPalette() {
	e.palette = NewPalette(e.primary, e.accent, e.custom)
	e.paletteGen++
}

// Style returns the committed style.
func (e *Engine) Style() Style { return e.cur.style }

// Target returns the style being transitioned to, or the current style.
func (e *Engine) Target() Style {
	if e.next != nil {
		return e.next.style
	}
	return e.cur.style
}

// Transitioning reports whether a crossfade is running.
func (e *Engine) Transitioning() bool { return e.next != nil }

// Progress returns the crossfade progress, 1 when idle.
func (e *Engine) Progress() float64 {
	if e.next == nil {
		return 1
	}
	return e.progress
}

// Palette returns the current palette.
func (e *Engine) Palette() Palette { return e.palette }

// Color returns one palette slot.
func (e *Engine) Color(slot int) color.NRGBA { return e.palette[slot] }

// Energy returns the current energy.
func (e *Engine) Energy() float64 { return e.energy }

// SetEnergy sets the animation energy, clamped to [0,1].
func (e *Engine) SetEnergy(v float64) { e.energy = clamp01(v) }

// IndicatorAlpha returns the style indicator opacity.
func (e *Engine) IndicatorAlpha() float64 { return e.indicator / indicatorSeconds }

// FlashStrength returns the transition flash strength.
func (e *Engine) FlashStrength() float64 { return e.flash }

// SetColors sets custom palette source colours.
func (e *Engine) SetColors(primary, accent color.Color) {
	e.primary, e.accent, e.custom = primary, accent, true
	e.regenPalette()
}

// ClearColors reverts to the default palette.
func (e *Engine) ClearColors() {
	e.primary, e.accent, e.custom = nil, nil, false
	e.regenPalette()
}

// Cycle starts a transition to the next style. A transition already in
// progress is committed first.
func (e *Engine) Cycle() {
	e.commit()
	e.SetStyle(e.cur.style.Next(), true)
}

// SetStyle switches style. With animate false the switch is instant.
func (e *Engine) SetStyle(s Style, animate bool) {
	if s < 0 || s >= NumStyles {
		return
	}
	e.commit()
	if s == e.cur.style {
		return
	}
	sc := e.newScene(s)
	e.regenPalette()
	e.indicator = indicatorSeconds
	if !animate {
		e.cur = sc
		return
	}
	e.next = sc
	e.progress = 0
	e.flash = 1
}

func (e *Engine) commit() {
	if e.next == nil {
		return
	}
	e.cur, e.next = e.next, nil
	e.progress = 1
}

// Update advances animations by dt seconds.
func (e *Engine) Update(dt float64) {
	if dt <= 0 {
		return
	}
	e.time += dt
	e.flash = math.Max(0, e.flash-flashDecay*dt)
	e.indicator = math.Max(0, e.indicator-dt)

	if e.next != nil {
		e.progress += dt / transitionSeconds
		if e.progress >= 1 {
			e.commit()
		}
	}

	cur := &e.blur[0]
	if cur.img != nil && cur.alpha < 1 {
		cur.alpha = math.Min(1, cur.alpha+dt/blurFadeSeconds)
	}
	prev := &e.blur[1]
	if prev.img != nil {
		prev.alpha -= dt / blurFadeSeconds
		if prev.alpha <= 0 {
			e.released = append(e.released, prev.img)
			*prev = blurSlot{}
		}
	}
}

// SetBlurSource sets the image the BLUR style is built from, typically the
// album art. The previous texture fades out; nil fades out the current one.
func (e *Engine) SetBlurSource(img image.Image) {
	if e.blur[1].img != nil {
		e.released = append(e.released, e.blur[1].img)
	}
	e.blur[1] = e.blur[0]
	e.blur[0] = blurSlot{}
	if img == nil || img.Bounds().Empty() {
		return
	}
	w, h := max(1, e.w/blurScale), max(1, e.h/blurScale)
	small := imaging.Fill(img, w, h, imaging.Center, imaging.Linear)
	e.blur[0] = blurSlot{img: imaging.Blur(small, blurRadius)}
}

// HasBlur reports whether a blur texture is loaded.
func (e *Engine) HasBlur() bool { return e.blur[0].img != nil }

// Draw renders the backdrop.
func (e *Engine) Draw(c render.Canvas) {
	if r, ok := c.(releaser); ok {
		for _, img := range e.released {
			r.Release(img)
		}
	}
	e.released = e.released[:0]

	c.Clear(e.palette[ColorBackground])
	fc := frame{c: c, pal: &e.palette, t: e.time, energy: e.energy, blur: e.blur, w: float64(e.w), h: float64(e.h)}
	if e.next == nil {
		e.cur.draw(fc, 1)
	} else {
		e.cur.draw(fc, 1-e.progress)
		e.next.draw(fc, e.progress)
	}

	if e.flash > 0 {
		c.FillRect(0, 0, fc.w, fc.h, render.WithAlpha(color.White, e.flash*0.25))
	}
	if e.indicator > 0 {
		e.drawIndicator(c)
	}
}

func (e *Engine) drawIndicator(c render.Canvas) {
	a := e.IndicatorAlpha()
	const bw, bh = 280.0, 56.0
	x := (float64(e.w) - bw) / 2
	y := 24.0
	c.FillRoundedRect(x, y, bw, bh, 12, render.WithAlpha(color.Black, 0.55*a))
	pulse := 0.5 + 0.5*math.Sin(e.time*8)
	c.StrokeRect(x, y, bw, bh, 1.5+1.5*pulse, render.WithAlpha(e.palette[ColorAccent], a*(0.6+0.4*pulse)))
	c.Text(e.Target().String(), x+bw/2, y+bh/2, 24, render.WithAlpha(color.White, a), render.AlignCenter)
}
