package background

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette slots.
const (
	ColorPrimary = iota
	ColorAccent
	ColorAccentTriad
	ColorPrimaryShift
	ColorHighlight
	ColorBackground

	PaletteSize
)

// Palette is the six-colour set derived from a primary and accent colour.
type Palette [PaletteSize]color.NRGBA

var (
	defaultPrimary = colorful.Color{R: 0.29, G: 0.42, B: 0.97}
	defaultAccent  = colorful.Color{R: 0.93, G: 0.36, B: 0.62}
	defaultDark    = color.NRGBA{R: 10, G: 10, B: 16, A: 255}
)

// NewPalette derives a palette in HSV space. With custom false the
// background slot is a fixed dark tone instead of a tint of primary.
func NewPalette(primary, accent color.Color, custom bool) Palette {
	p, ok := colorful.MakeColor(primary)
	if !ok {
		p = defaultPrimary
	}
	a, ok := colorful.MakeColor(accent)
	if !ok {
		a = defaultAccent
	}

	ph, ps, pv := p.Hsv()
	ah, as, av := a.Hsv()

	var pal Palette
	pal[ColorPrimary] = toNRGBA(p)
	pal[ColorAccent] = toNRGBA(a)
	pal[ColorAccentTriad] = hsv(ah+120, as*0.8+0.1, av*1.05)
	pal[ColorPrimaryShift] = hsv(ph+200, ps*0.6+0.2, pv*0.85)
	pal[ColorHighlight] = hsv(ah+30, as*0.9+0.1, math.Max(0.8, 0.2*av+0.8))
	if custom {
		pal[ColorBackground] = hsv(ph, ps*0.3, pv*0.15)
	} else {
		pal[ColorBackground] = defaultDark
	}
	return pal
}

func hsv(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return toNRGBA(colorful.Hsv(h, clamp01(s), clamp01(v)))
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Blend mixes two palette colours in Lab space.
func Blend(from, to color.Color, t float64) color.NRGBA {
	a, _ := colorful.MakeColor(from)
	b, _ := colorful.MakeColor(to)
	return toNRGBA(a.BlendLab(b, clamp01(t)))
}
