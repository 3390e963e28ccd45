// Package background draws the animated backdrop shared by plugins and owns
// the colour palette they use for matching accents.
package background

import "strings"

// Style selects the procedural backdrop.
type Style int

const (
	Pulse Style = iota
	Aurora
	Radial
	Wave
	Grid
	Blur
	Constellation
	Liquid
	Bokeh

	NumStyles = 9
)

var styleNames = [NumStyles]string{
	"PULSE", "AURORA", "RADIAL", "WAVE", "GRID", "BLUR", "CONSTELLATION", "LIQUID", "BOKEH",
}

func (s Style) String() string {
	if s < 0 || s >= NumStyles {
		return "UNKNOWN"
	}
	return styleNames[s]
}

// Next returns the style after s, wrapping around.
func (s Style) Next() Style {
	return (s + 1) % NumStyles
}

// ParseStyle parses a style name, case-insensitively.
func ParseStyle(name string) (Style, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return Style(i), true
		}
	}
	return Pulse, false
}
