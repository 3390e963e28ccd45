package styles

import (
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRGBA(t *testing.T) {
	got := RGBA(lipgloss.Color("#1db954"))
	want := color.NRGBA{R: 29, G: 185, B: 84, A: 255}
	if got != want {
		t.Errorf("RGBA() = %v, want %v", got, want)
	}

	// ANSI colors fall back to gray
	if got := RGBA(lipgloss.Color("240")); got.R != 128 || got.G != 128 {
		t.Errorf("RGBA(ansi) = %v, want gray", got)
	}
}

func TestBlend(t *testing.T) {
	from := color.NRGBA{R: 255, A: 255}
	to := color.NRGBA{B: 255, A: 255}

	colors := Blend(5, from, to)
	if len(colors) != 5 {
		t.Fatalf("len = %d, want 5", len(colors))
	}
	r, _, b, _ := colors[0].RGBA()
	if r>>8 < 250 || b>>8 > 5 {
		t.Errorf("first = %v, want red", colors[0])
	}
	r, _, b, _ = colors[4].RGBA()
	if r>>8 > 5 || b>>8 < 250 {
		t.Errorf("last = %v, want blue", colors[4])
	}

	if got := Blend(1, from, to); len(got) != 1 || got[0] != color.Color(from) {
		t.Errorf("Blend(1) = %v, want [from]", got)
	}
}

func TestGradient(t *testing.T) {
	base := lipgloss.NewStyle().Bold(true)
	if Gradient("", base, T().Primary, T().Secondary) != "" {
		t.Error("empty text should stay empty")
	}
	out := Gradient("mediadash", base, T().Primary, T().Secondary)
	for _, r := range "mediadash" {
		if !strings.ContainsRune(out, r) {
			t.Errorf("output lost %q", r)
		}
	}
}

func TestCanvasTheme(t *testing.T) {
	c := T().Canvas()
	if c.Background.A != 255 || c.Text.A != 255 {
		t.Error("canvas colors must be opaque")
	}
	if c.Primary != RGBA(T().Primary) {
		t.Errorf("Primary = %v", c.Primary)
	}
}

func TestField(t *testing.T) {
	out := Field("Track", "Song")
	if !strings.Contains(out, "Track") || !strings.Contains(out, "Song") {
		t.Errorf("Field() = %q", out)
	}
}
