package nowplaying

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Dominant picks a primary and an accent color for the background from
// album art: the average color and the most saturated swatch of a 4x4
// thumbnail.
func Dominant(img image.Image) (primary, accent color.Color) {
	small := imaging.Resize(img, 4, 4, imaging.Box)
	b := small.Bounds()

	var sr, sg, sb, n float64
	best := -1.0
	var bestCol colorful.Color
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(small.NRGBAAt(x, y))
			if !ok {
				continue
			}
			sr, sg, sb = sr+c.R, sg+c.G, sb+c.B
			n++
			_, s, v := c.Hsv()
			// Near-black pixels read as saturated but look muddy.
			if score := s * v; score > best {
				best, bestCol = score, c
			}
		}
	}
	if n == 0 {
		return color.Black, color.Black
	}
	avg := colorful.Color{R: sr / n, G: sg / n, B: sb / n}
	return toNRGBA(avg), toNRGBA(bestCol)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
