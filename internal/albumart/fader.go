package albumart

import (
	"image"
	"math"

	"github.com/llehouerou/mediadash/internal/render"
)

// DefaultFadeSeconds is the crossfade length between covers.
const DefaultFadeSeconds = 0.4

type slot struct {
	img   image.Image
	alpha float64
}

// Releaser drops any cached copies of an image.
type Releaser interface {
	Release(img image.Image)
}

// Fader holds the current cover and the one fading out. The previous
// image is released on the first Draw after its alpha reaches zero.
type Fader struct {
	Seconds float64

	cur, prev slot
	released  []image.Image
}

// NewFader returns a fader with the default duration.
func NewFader() *Fader {
	return &Fader{Seconds: DefaultFadeSeconds}
}

// Set starts fading to img. A nil img fades the current cover out.
func (f *Fader) Set(img image.Image) {
	if img == f.cur.img {
		return
	}
	if f.prev.img != nil {
		f.released = append(f.released, f.prev.img)
	}
	f.prev = f.cur
	f.cur = slot{img: img}
	if f.prev.img == nil {
		f.prev = slot{}
	}
}

// Current returns the image fading in or shown.
func (f *Fader) Current() image.Image { return f.cur.img }

// Alphas returns the current and previous slot opacities.
func (f *Fader) Alphas() (cur, prev float64) { return f.cur.alpha, f.prev.alpha }

// Fading reports whether a transition is still running.
func (f *Fader) Fading() bool {
	return (f.cur.img != nil && f.cur.alpha < 1) || f.prev.img != nil
}

// Update advances both slots by dt seconds.
func (f *Fader) Update(dt float64) {
	step := 1.0
	if f.Seconds > 0 {
		step = dt / f.Seconds
	}
	if f.cur.img != nil {
		f.cur.alpha = math.Min(1, f.cur.alpha+step)
	}
	if f.prev.img != nil {
		f.prev.alpha -= step
		if f.prev.alpha <= 0 {
			f.released = append(f.released, f.prev.img)
			f.prev = slot{}
		}
	}
}

// Draw paints both slots into the rectangle, previous first.
func (f *Fader) Draw(c render.Canvas, x, y, w, h float64) {
	if r, ok := c.(Releaser); ok {
		for _, img := range f.released {
			r.Release(img)
		}
	}
	f.released = f.released[:0]

	if f.prev.img != nil && f.prev.alpha > 0 {
		c.DrawImage(f.prev.img, x, y, w, h, f.prev.alpha)
	}
	if f.cur.img != nil && f.cur.alpha > 0 {
		c.DrawImage(f.cur.img, x, y, w, h, f.cur.alpha)
	}
}

// Clear drops both slots immediately.
func (f *Fader) Clear() {
	for _, s := range []slot{f.cur, f.prev} {
		if s.img != nil {
			f.released = append(f.released, s.img)
		}
	}
	f.cur, f.prev = slot{}, slot{}
}
