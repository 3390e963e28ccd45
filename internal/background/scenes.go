package background

import (
	"math"
	"math/rand/v2"

	"github.com/llehouerou/mediadash/internal/render"
)

const (
	numStars       = 40
	starLinkDist   = 120.0
	numBlobs       = 6
	numBokeh       = 24
	gridSpacing    = 40.0
	numWaveStrands = 5
	waveSegments   = 48
)

type frame struct {
	c      render.Canvas
	pal    *Palette
	t      float64
	energy float64
	blur   [2]blurSlot
	w, h   float64
}

type star struct {
	x, y, vx, vy float64
}

type blob struct {
	xPhase, yPhase float64
	xSpeed, ySpeed float64
	radius         float64
}

type bokehCircle struct {
	x, y   float64
	radius float64
	depth  float64 // 0 far .. 1 near
	slot   int
}

// scene is one style instance with its seeded layout.
type scene struct {
	style Style
	phase float64
	stars []star
	blobs []blob
	bokeh []bokehCircle
}

func newScene(s Style, rng *rand.Rand, w, h int) *scene {
	sc := &scene{style: s, phase: rng.Float64() * 2 * math.Pi}
	fw, fh := float64(w), float64(h)
	switch s {
	case Constellation:
		sc.stars = make([]star, numStars)
		for i := range sc.stars {
			sc.stars[i] = star{
				x:  rng.Float64() * fw,
				y:  rng.Float64() * fh,
				vx: (rng.Float64() - 0.5) * 16,
				vy: (rng.Float64() - 0.5) * 16,
			}
		}
	case Liquid:
		sc.blobs = make([]blob, numBlobs)
		for i := range sc.blobs {
			sc.blobs[i] = blob{
				xPhase: rng.Float64() * 2 * math.Pi,
				yPhase: rng.Float64() * 2 * math.Pi,
				xSpeed: 0.15 + rng.Float64()*0.25,
				ySpeed: 0.12 + rng.Float64()*0.25,
				radius: fh * (0.25 + rng.Float64()*0.25),
			}
		}
	case Bokeh:
		sc.bokeh = make([]bokehCircle, numBokeh)
		for i := range sc.bokeh {
			sc.bokeh[i] = bokehCircle{
				x:      rng.Float64() * fw,
				y:      rng.Float64() * fh,
				radius: 12 + rng.Float64()*48,
				depth:  rng.Float64(),
				slot:   rng.IntN(ColorHighlight + 1),
			}
		}
	}
	return sc
}

// waveParams returns the WAVE amplitude scale and line opacity for energy.
func waveParams(energy float64) (amplitude, opacity float64) {
	return 0.3 + 0.7*energy, 0.04 + 0.06*energy
}

// draw renders the scene with every element's opacity multiplied by alpha.
func (sc *scene) draw(f frame, alpha float64) {
	if alpha <= 0 {
		return
	}
	switch sc.style {
	case Pulse:
		sc.drawPulse(f, alpha)
	case Aurora:
		sc.drawAurora(f, alpha)
	case Radial:
		sc.drawRadial(f, alpha)
	case Wave:
		sc.drawWave(f, alpha)
	case Grid:
		sc.drawGrid(f, alpha)
	case Blur:
		sc.drawBlur(f, alpha)
	case Constellation:
		sc.drawConstellation(f, alpha)
	case Liquid:
		sc.drawLiquid(f, alpha)
	case Bokeh:
		sc.drawBokeh(f, alpha)
	}
}

func (sc *scene) drawPulse(f frame, alpha float64) {
	cx, cy := f.w/2, f.h/2
	for i := range 3 {
		fi := float64(i)
		r := f.h * (0.35 + 0.25*fi) * (1 + 0.08*math.Sin(f.t*2+fi+sc.phase))
		inner := render.WithAlpha(f.pal[ColorPrimary+i], 0.25*alpha)
		f.c.RadialGradient(cx, cy, r, inner, render.WithAlpha(inner, 0))
	}
}

func (sc *scene) drawAurora(f frame, alpha float64) {
	pts := make([]render.Point, waveSegments+1)
	for i := range 4 {
		fi := float64(i)
		for j := range pts {
			x := f.w * float64(j) / waveSegments
			y := f.h*0.3 + fi*40 + math.Sin(x*0.01+f.t*0.5+fi+sc.phase)*30 + math.Sin(x*0.023-f.t*0.3)*12
			pts[j] = render.Point{X: x, Y: y}
		}
		f.c.Polyline(pts, 36, render.WithAlpha(f.pal[ColorPrimary+i], 0.12*alpha))
	}
}

func (sc *scene) drawRadial(f frame, alpha float64) {
	cx, cy := f.w/2, f.h/2
	f.c.RadialGradient(cx, cy, math.Hypot(cx, cy), render.WithAlpha(f.pal[ColorPrimary], 0.45*alpha), render.WithAlpha(f.pal[ColorBackground], 0))
	const rays = 12
	rot := f.t*0.1 + sc.phase
	for i := range rays {
		a := rot + float64(i)*2*math.Pi/rays
		f.c.Line(cx, cy, cx+math.Cos(a)*f.w, cy+math.Sin(a)*f.w, 18, render.WithAlpha(f.pal[ColorAccent], 0.05*alpha))
	}
}

func (sc *scene) drawWave(f frame, alpha float64) {
	amp, opacity := waveParams(f.energy)
	pts := make([]render.Point, waveSegments+1)
	for i := range numWaveStrands {
		fi := float64(i)
		base := f.h * (0.3 + 0.1*fi)
		for j := range pts {
			x := f.w * float64(j) / waveSegments
			y := base + math.Sin(x*0.012+f.t*(0.8+0.15*fi)+sc.phase+fi)*f.h*0.12*amp
			pts[j] = render.Point{X: x, Y: y}
		}
		col := f.pal[ColorAccent+i%4]
		f.c.Polyline(pts, 3, render.WithAlpha(col, opacity*alpha))
	}
}

func (sc *scene) drawGrid(f frame, alpha float64) {
	line := render.WithAlpha(f.pal[ColorPrimaryShift], 0.06*alpha)
	off := math.Mod(f.t*6, gridSpacing)
	for x := off; x < f.w; x += gridSpacing {
		f.c.Line(x, 0, x, f.h, 1, line)
	}
	for y := off; y < f.h; y += gridSpacing {
		f.c.Line(0, y, f.w, y, 1, line)
	}
	for i := range 3 {
		fi := float64(i)
		gx := f.w/2 + math.Sin(f.t*0.2*(fi+1)+sc.phase+fi*2)*f.w*0.35
		gy := f.h/2 + math.Cos(f.t*0.17*(fi+1)+fi)*f.h*0.3
		inner := render.WithAlpha(f.pal[ColorAccent+i], 0.2*alpha)
		f.c.RadialGradient(gx, gy, 140, inner, render.WithAlpha(inner, 0))
	}
}

func (sc *scene) drawBlur(f frame, alpha float64) {
	prev, cur := f.blur[1], f.blur[0]
	if prev.img == nil && cur.img == nil {
		// No art yet: a soft gradient stands in.
		f.c.RadialGradient(f.w/2, f.h/2, f.w*0.6, render.WithAlpha(f.pal[ColorPrimaryShift], 0.3*alpha), render.WithAlpha(f.pal[ColorBackground], 0))
		return
	}
	if prev.img != nil {
		f.c.DrawImage(prev.img, 0, 0, f.w, f.h, prev.alpha*alpha)
	}
	if cur.img != nil {
		f.c.DrawImage(cur.img, 0, 0, f.w, f.h, cur.alpha*alpha)
	}
	f.c.FillRect(0, 0, f.w, f.h, render.WithAlpha(f.pal[ColorBackground], 0.35*alpha))
}

func (sc *scene) starPos(s star, t, w, h float64) (float64, float64) {
	x := math.Mod(s.x+s.vx*t, w)
	if x < 0 {
		x += w
	}
	y := math.Mod(s.y+s.vy*t, h)
	if y < 0 {
		y += h
	}
	return x, y
}

func (sc *scene) drawConstellation(f frame, alpha float64) {
	var pos [numStars][2]float64
	for i, s := range sc.stars {
		pos[i][0], pos[i][1] = sc.starPos(s, f.t, f.w, f.h)
	}
	edge := f.pal[ColorAccent]
	for i := range sc.stars {
		for j := i + 1; j < len(sc.stars); j++ {
			d := math.Hypot(pos[i][0]-pos[j][0], pos[i][1]-pos[j][1])
			if d >= starLinkDist {
				continue
			}
			f.c.Line(pos[i][0], pos[i][1], pos[j][0], pos[j][1], 1, render.WithAlpha(edge, (1-d/starLinkDist)*0.25*alpha))
		}
	}
	for i := range sc.stars {
		f.c.FillCircle(pos[i][0], pos[i][1], 2, render.WithAlpha(f.pal[ColorHighlight], 0.6*alpha))
	}
}

func (sc *scene) drawLiquid(f frame, alpha float64) {
	for i, b := range sc.blobs {
		cx := f.w/2 + math.Sin(f.t*b.xSpeed+b.xPhase)*f.w*0.35
		cy := f.h/2 + math.Cos(f.t*b.ySpeed+b.yPhase)*f.h*0.3
		inner := render.WithAlpha(f.pal[i%4], 0.35*alpha)
		f.c.RadialGradient(cx, cy, b.radius, inner, render.WithAlpha(inner, 0))
	}
}

func (sc *scene) drawBokeh(f frame, alpha float64) {
	for _, b := range sc.bokeh {
		// Near circles drift faster.
		x := math.Mod(b.x+f.t*(4+18*b.depth), f.w+2*b.radius) - b.radius
		y := b.y + math.Sin(f.t*0.3+b.x)*6*b.depth
		col := f.pal[b.slot]
		f.c.FillCircle(x, y, b.radius*(0.6+0.4*b.depth), render.WithAlpha(col, (0.08+0.1*b.depth)*alpha))
	}
}
