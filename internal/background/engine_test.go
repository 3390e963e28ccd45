package background

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediadash/internal/render/rendertest"
)

func countingSeeder(n *int) Seeder {
	return func() (uint64, uint64) {
		*n++
		return uint64(*n), uint64(*n) * 7
	}
}

func newTestEngine(t *testing.T) (*Engine, *int) {
	t.Helper()
	seeds := 0
	return NewEngine(800, 480, WithSeeder(countingSeeder(&seeds))), &seeds
}

func TestEngine_StartsInPulse(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, Pulse, e.Style())
	assert.Equal(t, Pulse, e.Target())
	assert.False(t, e.Transitioning())
	assert.Equal(t, 1.0, e.Progress())
}

func TestEngine_CycleThreeTimesWithoutFrames(t *testing.T) {
	e, seeds := newTestEngine(t)
	gen := e.paletteGen
	start := *seeds

	e.Cycle()
	e.Cycle()
	e.Cycle()

	// Each cycle commits the transition left by the previous one, so after
	// three cycles from PULSE the committed style is RADIAL and the third
	// cycle's WAVE is still fading in.
	assert.Equal(t, Radial, e.Style())
	assert.Equal(t, Wave, e.Target())
	assert.True(t, e.Transitioning())
	assert.Equal(t, 0.0, e.Progress())
	assert.Equal(t, gen+3, e.paletteGen, "palette regenerated each cycle")
	assert.Equal(t, start+3, *seeds, "seed pair regenerated each style change")

	e.Update(transitionSeconds)
	assert.Equal(t, Wave, e.Style())
	assert.Equal(t, Wave, e.Target())
	assert.False(t, e.Transitioning())
}

func TestEngine_CycleWraps(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetStyle(Bokeh, false)
	e.Cycle()
	assert.Equal(t, Pulse, e.Target())
}

func TestEngine_TransitionProgress(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Cycle()

	e.Update(transitionSeconds / 2)
	assert.InDelta(t, 0.5, e.Progress(), 1e-9)
	assert.Equal(t, Pulse, e.Style())
	assert.Equal(t, Aurora, e.Target())

	e.Update(transitionSeconds / 2)
	assert.False(t, e.Transitioning())
	assert.Equal(t, Aurora, e.Style())
}

func TestEngine_SetStyleInstant(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetStyle(Liquid, false)
	assert.Equal(t, Liquid, e.Style())
	assert.False(t, e.Transitioning())
	assert.Zero(t, e.FlashStrength())

	e.SetStyle(Style(42), false)
	assert.Equal(t, Liquid, e.Style(), "invalid style ignored")
}

func TestEngine_FlashAndIndicatorDecay(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Cycle()
	assert.Equal(t, 1.0, e.FlashStrength())
	assert.Equal(t, 1.0, e.IndicatorAlpha())

	e.Update(0.2)
	assert.InDelta(t, 1-2.6*0.2, e.FlashStrength(), 1e-9)
	assert.InDelta(t, (1.3-0.2)/1.3, e.IndicatorAlpha(), 1e-9)

	e.Update(1.2)
	assert.Zero(t, e.FlashStrength())
	assert.Zero(t, e.IndicatorAlpha())
}

func TestEngine_Energy(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetEnergy(2)
	assert.Equal(t, 1.0, e.Energy())
	e.SetEnergy(-1)
	assert.Equal(t, 0.0, e.Energy())

	tests := []struct {
		energy, amp, opacity float64
	}{
		{0, 0.3, 0.04},
		{0.3, 0.51, 0.058},
		{1, 1, 0.10},
	}
	for _, tt := range tests {
		amp, op := waveParams(tt.energy)
		if math.Abs(amp-tt.amp) > 1e-9 || math.Abs(op-tt.opacity) > 1e-9 {
			t.Errorf("waveParams(%v) = %v, %v, want %v, %v", tt.energy, amp, op, tt.amp, tt.opacity)
		}
	}
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestEngine_BlurCrossfade(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetStyle(Blur, false)
	rec := rendertest.New()

	e.SetBlurSource(solid(64, 64, color.NRGBA{R: 200, A: 255}))
	require.True(t, e.HasBlur())
	assert.Zero(t, e.blur[0].alpha)

	e.Update(blurFadeSeconds)
	assert.Equal(t, 1.0, e.blur[0].alpha)
	first := e.blur[0].img

	e.SetBlurSource(solid(64, 64, color.NRGBA{B: 200, A: 255}))
	assert.Same(t, first, e.blur[1].img)
	assert.Equal(t, 1.0, e.blur[1].alpha)

	e.Draw(rec)
	assert.Equal(t, 2, rec.Count("image"))

	e.Update(blurFadeSeconds)
	assert.Nil(t, e.blur[1].img, "previous slot released when faded out")
	assert.Equal(t, []image.Image{first}, e.released)

	rec.Reset()
	e.Draw(rec)
	assert.Equal(t, 1, rec.Count("image"))
	assert.Empty(t, e.released)

	b := e.blur[0].img.Bounds()
	assert.Equal(t, 800/blurScale, b.Dx())
	assert.Equal(t, 480/blurScale, b.Dy())
}

func TestEngine_DrawEveryStyle(t *testing.T) {
	e, _ := newTestEngine(t)
	rec := rendertest.New()
	for s := range Style(NumStyles) {
		e.SetStyle(s, false)
		e.Update(0.5)
		rec.Reset()
		e.Draw(rec)

		require.NotEmpty(t, rec.Ops, s.String())
		assert.Equal(t, "clear", rec.Ops[0].Kind, s.String())
		for _, op := range rec.Ops {
			if op.Alpha < 0 || op.Alpha > 1 {
				t.Errorf("%v: %s alpha %v out of range", s, op.Kind, op.Alpha)
			}
		}
	}
}

func TestEngine_CrossfadeScalesAlpha(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetStyle(Bokeh, false)
	e.Update(2) // let the indicator finish
	rec := rendertest.New()
	e.Draw(rec)
	full := maxAlpha(rec, "circle")

	e.Cycle() // towards PULSE
	e.Update(transitionSeconds * 0.75)
	rec.Reset()
	e.Draw(rec)
	faded := maxAlpha(rec, "circle")

	assert.Greater(t, full, 0.0)
	assert.Less(t, faded, full*0.3, "outgoing style drawn at 1 - progress")
}

func maxAlpha(rec *rendertest.Recorder, kind string) float64 {
	m := 0.0
	for _, op := range rec.Ops {
		if op.Kind == kind {
			m = math.Max(m, op.Alpha)
		}
	}
	return m
}

func TestParseStyle(t *testing.T) {
	for s := range Style(NumStyles) {
		got, ok := ParseStyle(s.String())
		if !ok || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStyle("sparkle"); ok {
		t.Error("ParseStyle(sparkle) should fail")
	}
	if got, _ := ParseStyle(" liquid "); got != Liquid {
		t.Errorf("ParseStyle(liquid) = %v, want LIQUID", got)
	}
}
