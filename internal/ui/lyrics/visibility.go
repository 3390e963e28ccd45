package lyrics

import "math"

// VisibilityMode maps a line's distance from the current line to opacity.
type VisibilityMode int

const (
	VisibilityAll VisibilityMode = iota
	VisibilityCurrentOnly
	VisibilityCurrentNext
	VisibilitySpotlight

	numVisibilityModes
)

var visibilityNames = [...]string{"ALL", "CURRENT_ONLY", "CURRENT_NEXT", "SPOTLIGHT"}

func (v VisibilityMode) String() string {
	if v < 0 || v >= numVisibilityModes {
		return "UNKNOWN"
	}
	return visibilityNames[v]
}

// Next returns the following mode, wrapping around.
func (v VisibilityMode) Next() VisibilityMode {
	return (v + 1) % numVisibilityModes
}

const (
	allMinOpacity = 0.08
	allDecay      = 0.75
	nextOpacity   = 0.55
	nextLines     = 2
)

var (
	allSteps       = [...]float64{1.0, 0.65, 0.45, 0.3}
	spotlightSteps = [...]float64{1.0, 0.12, 0.06, 0.02}
)

// Opacity returns the opacity of a line delta lines after the current one
// (negative for lines before it).
func (v VisibilityMode) Opacity(delta int) float64 {
	d := delta
	if d < 0 {
		d = -d
	}
	switch v {
	case VisibilityCurrentOnly:
		if d == 0 {
			return 1
		}
		return 0
	case VisibilityCurrentNext:
		switch {
		case delta == 0:
			return 1
		case delta > 0 && delta <= nextLines:
			return nextOpacity
		}
		return 0
	case VisibilitySpotlight:
		return spotlightSteps[min(d, len(spotlightSteps)-1)]
	default:
		if d < len(allSteps) {
			return allSteps[d]
		}
		last := allSteps[len(allSteps)-1]
		return math.Max(allMinOpacity, last*math.Pow(allDecay, float64(d-len(allSteps)+1)))
	}
}

// DisplayStyle selects the lyrics layout.
type DisplayStyle int

const (
	// StyleCentered keeps the current line centred and allows drag-to-seek.
	StyleCentered DisplayStyle = iota
	// StyleLeft pins the current line to the upper third, left aligned.
	StyleLeft

	numDisplayStyles
)

func (s DisplayStyle) String() string {
	switch s {
	case StyleCentered:
		return "CENTERED"
	case StyleLeft:
		return "LEFT"
	}
	return "UNKNOWN"
}

// Next returns the following style, wrapping around.
func (s DisplayStyle) Next() DisplayStyle {
	return (s + 1) % numDisplayStyles
}
