package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for colors that are not #rrggbb, such as ANSI indexes.
var neutral = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Gradient renders text in base with a foreground fading from one color to
// the other, one step per grapheme cluster.
func Gradient(text string, base lipgloss.Style, from, to lipgloss.Color) string {
	var clusters []string
	for gr := uniseg.NewGraphemes(text); gr.Next(); {
		clusters = append(clusters, gr.Str())
	}
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return base.Foreground(from).Render(text)
	}

	var b strings.Builder
	for i, c := range Blend(len(clusters), lipglossToColor(from), lipglossToColor(to)) {
		b.WriteString(base.Foreground(lipgloss.Color(toHex(c))).Render(clusters[i]))
	}
	return b.String()
}

// Blend returns size colors from one end to the other, interpolated in HCL
// so the steps look even.
func Blend(size int, from, to color.Color) []color.Color {
	if size < 2 {
		return []color.Color{from}
	}
	a, _ := colorful.MakeColor(from)
	z, _ := colorful.MakeColor(to)

	out := make([]color.Color, size)
	for i := range out {
		out[i] = a.BlendHcl(z, float64(i)/float64(size-1)).Clamped()
	}
	return out
}

func lipglossToColor(c lipgloss.Color) color.Color {
	if s := string(c); len(s) == 7 && s[0] == '#' {
		if col, err := colorful.Hex(s); err == nil {
			return col
		}
	}
	return neutral
}

func toHex(c color.Color) string {
	if cf, ok := c.(colorful.Color); ok {
		return cf.Hex()
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
