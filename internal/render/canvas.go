// Package render defines the raster surface plugins and the background
// engine draw on, with a gg-backed implementation.
package render

import (
	"image"
	"image/color"
	"math"
)

// Align anchors text horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Measurer measures rendered text width.
type Measurer interface {
	MeasureText(s string, size float64) float64
}

// Canvas is a 2D drawing surface. Text y is the vertical center of the line.
type Canvas interface {
	Measurer
	Size() (w, h int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillRoundedRect(x, y, w, h, r float64, c color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	FillCircle(x, y, r float64, c color.Color)
	// RadialGradient fills a circle fading from inner at the center to outer at r.
	RadialGradient(x, y, r float64, inner, outer color.Color)
	Line(x1, y1, x2, y2, lineWidth float64, c color.Color)
	Polyline(pts []Point, lineWidth float64, c color.Color)
	DrawImage(img image.Image, x, y, w, h, alpha float64)
	Text(s string, x, y, size float64, c color.Color, align Align)
}

// WithAlpha returns c with its alpha multiplied by a (clamped to [0,1]).
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a = math.Max(0, math.Min(1, a))
	n.A = uint8(math.Round(float64(n.A) * a))
	return n
}

// Transparent reports whether c would draw nothing.
func Transparent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0
}
