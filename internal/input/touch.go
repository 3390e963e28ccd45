package input

import "math"

// Logical landscape screen size.
const (
	ScreenWidth  = 800
	ScreenHeight = 480
)

// AxisRange is the raw range of one absolute axis.
type AxisRange struct {
	Min, Max int32
}

func (r AxisRange) normalize(v int32) float64 {
	if r.Max <= r.Min {
		return 0
	}
	n := float64(v-r.Min) / float64(r.Max-r.Min)
	return math.Max(0, math.Min(1, n))
}

// Transform maps raw portrait panel coordinates to landscape pixels.
type Transform struct {
	X, Y AxisRange
}

// Apply normalizes (rx, ry) to a 480x800 portrait frame and rotates it
// -90 degrees into 800x480 landscape: (lx, ly) = (py, 479 - px).
func (t Transform) Apply(rx, ry int32) Point {
	px := int(math.Round(t.X.normalize(rx) * (ScreenHeight - 1)))
	py := int(math.Round(t.Y.normalize(ry) * (ScreenWidth - 1)))
	return Point{
		X: clamp(py, 0, ScreenWidth-1),
		Y: clamp(ScreenHeight-1-px, 0, ScreenHeight-1),
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
