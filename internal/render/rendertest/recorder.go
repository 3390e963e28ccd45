// Package rendertest provides a recording Canvas for tests.
package rendertest

import (
	"image"
	"image/color"

	"github.com/llehouerou/mediadash/internal/render"
)

// Op is one recorded draw call.
type Op struct {
	Kind  string // "clear", "rect", "rrect", "stroke", "circle", "gradient", "line", "polyline", "image", "text"
	X, Y  float64
	W, H  float64
	Size  float64
	Text  string
	Color color.NRGBA
	Alpha float64 // image alpha, or color alpha / 255
	Align render.Align
}

// Recorder implements render.Canvas by recording calls.
type Recorder struct {
	W, H     int
	Measurer render.Measurer
	Ops      []Op
}

// New returns an 800×480 recorder using the cell measurer.
func New() *Recorder {
	return &Recorder{W: 800, H: 480, Measurer: render.DefaultCellMeasurer}
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *Recorder) add(op Op) {
	if op.Alpha == 0 && op.Kind != "image" {
		op.Alpha = float64(op.Color.A) / 255
	}
	r.Ops = append(r.Ops, op)
}

// Reset drops recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the text ops in draw order.
func (r *Recorder) Texts() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op)
		}
	}
	return out
}

// FindText returns the first text op whose text equals s.
func (r *Recorder) FindText(s string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) MeasureText(s string, size float64) float64 {
	return r.Measurer.MeasureText(s, size)
}

func (r *Recorder) Clear(c color.Color) {
	r.add(Op{Kind: "clear", Color: nrgba(c)})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.add(Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: nrgba(c)})
}

func (r *Recorder) FillRoundedRect(x, y, w, h, _ float64, c color.Color) {
	r.add(Op{Kind: "rrect", X: x, Y: y, W: w, H: h, Color: nrgba(c)})
}

func (r *Recorder) StrokeRect(x, y, w, h, lw float64, c color.Color) {
	r.add(Op{Kind: "stroke", X: x, Y: y, W: w, H: h, Size: lw, Color: nrgba(c)})
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.add(Op{Kind: "circle", X: x, Y: y, W: rad, Color: nrgba(c)})
}

func (r *Recorder) RadialGradient(x, y, rad float64, inner, _ color.Color) {
	r.add(Op{Kind: "gradient", X: x, Y: y, W: rad, Color: nrgba(inner)})
}

func (r *Recorder) Line(x1, y1, x2, y2, lw float64, c color.Color) {
	r.add(Op{Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Size: lw, Color: nrgba(c)})
}

func (r *Recorder) Polyline(pts []render.Point, lw float64, c color.Color) {
	op := Op{Kind: "polyline", Size: lw, Color: nrgba(c)}
	if len(pts) > 0 {
		op.X, op.Y = pts[0].X, pts[0].Y
	}
	r.add(op)
}

func (r *Recorder) DrawImage(_ image.Image, x, y, w, h, alpha float64) {
	r.add(Op{Kind: "image", X: x, Y: y, W: w, H: h, Alpha: alpha})
}

func (r *Recorder) Text(s string, x, y, size float64, c color.Color, align render.Align) {
	r.add(Op{Kind: "text", Text: s, X: x, Y: y, Size: size, Color: nrgba(c), Align: align})
}

var _ render.Canvas = (*Recorder)(nil)
