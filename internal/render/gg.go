package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const maxScaledImages = 8

type scaledKey struct {
	src  image.Image
	w, h int
}

// GGCanvas draws into an RGBA frame with gg.
type GGCanvas struct {
	dc     *gg.Context
	font   *truetype.Font
	faces  map[int]font.Face
	scaled map[scaledKey]*image.NRGBA
}

// NewGGCanvas creates a w×h canvas. fontPath selects a TTF; empty uses the
// bundled Go font.
func NewGGCanvas(w, h int, fontPath string) (*GGCanvas, error) {
	data := goregular.TTF
	if fontPath != "" {
		var err error
		data, err = os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &GGCanvas{
		dc:     gg.NewContext(w, h),
		font:   f,
		faces:  make(map[int]font.Face),
		scaled: make(map[scaledKey]*image.NRGBA),
	}, nil
}

// Image returns the frame buffer.
func (c *GGCanvas) Image() *image.RGBA {
	return c.dc.Image().(*image.RGBA)
}

// Size returns the canvas dimensions.
func (c *GGCanvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// face returns a cached face for size rounded to whole points; highlight
// animation interpolates sizes every frame.
func (c *GGCanvas) face(size float64) font.Face {
	key := max(1, int(math.Round(size)))
	if f, ok := c.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{Size: float64(key), Hinting: font.HintingFull})
	c.faces[key] = f
	return f
}

// MeasureText returns the advance width of s at size.
func (c *GGCanvas) MeasureText(s string, size float64) float64 {
	c.dc.SetFontFace(c.face(size))
	w, _ := c.dc.MeasureString(s)
	return w
}

func (c *GGCanvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *GGCanvas) FillRect(x, y, w, h float64, col color.Color) {
	if Transparent(col) {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *GGCanvas) FillRoundedRect(x, y, w, h, r float64, col color.Color) {
	if Transparent(col) {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(x, y, w, h, r)
	c.dc.Fill()
}

func (c *GGCanvas) StrokeRect(x, y, w, h, lineWidth float64, col color.Color) {
	if Transparent(col) {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Stroke()
}

func (c *GGCanvas) FillCircle(x, y, r float64, col color.Color) {
	if Transparent(col) || r <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *GGCanvas) RadialGradient(x, y, r float64, inner, outer color.Color) {
	if r <= 0 || (Transparent(inner) && Transparent(outer)) {
		return
	}
	grad := gg.NewRadialGradient(x, y, 0, x, y, r)
	grad.AddColorStop(0, inner)
	grad.AddColorStop(1, outer)
	c.dc.SetFillStyle(grad)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *GGCanvas) Line(x1, y1, x2, y2, lineWidth float64, col color.Color) {
	if Transparent(col) {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *GGCanvas) Polyline(pts []Point, lineWidth float64, col color.Color) {
	if len(pts) < 2 || Transparent(col) {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.Stroke()
}

// DrawImage scales img to w×h and composites it at (x, y) with alpha.
func (c *GGCanvas) DrawImage(img image.Image, x, y, w, h, alpha float64) {
	if img == nil || alpha <= 0 || w < 1 || h < 1 {
		return
	}
	scaled := c.scale(img, int(math.Round(w)), int(math.Round(h)))
	dst := c.Image()
	at := image.Pt(int(math.Round(x)), int(math.Round(y)))
	rect := image.Rectangle{Min: at, Max: at.Add(scaled.Bounds().Size())}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(math.Min(alpha, 1) * 255))})
	draw.DrawMask(dst, rect, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

func (c *GGCanvas) scale(img image.Image, w, h int) *image.NRGBA {
	key := scaledKey{src: img, w: w, h: h}
	if s, ok := c.scaled[key]; ok {
		return s
	}
	if len(c.scaled) >= maxScaledImages {
		clear(c.scaled)
	}
	s := imaging.Resize(img, w, h, imaging.Linear)
	c.scaled[key] = s
	return s
}

// Release drops cached scaled copies of img.
func (c *GGCanvas) Release(img image.Image) {
	for k := range c.scaled {
		if k.src == img {
			delete(c.scaled, k)
		}
	}
}

func (c *GGCanvas) Text(s string, x, y, size float64, col color.Color, align Align) {
	if s == "" || Transparent(col) {
		return
	}
	c.dc.SetFontFace(c.face(size))
	c.dc.SetColor(col)
	ax := 0.0
	switch align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	c.dc.DrawStringAnchored(s, x, y, ax, 0.5)
}

var _ Canvas = (*GGCanvas)(nil)
