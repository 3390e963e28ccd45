// Package styles holds the shared color theme: canvas colors for the
// device screens and lipgloss styles for the diagnostic CLI.
package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and pre-built styles.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // focused items, active states
	Secondary lipgloss.Color

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Backgrounds
	BgBase   lipgloss.Color
	BgPanel  lipgloss.Color // translucent cards over the background
	BgCursor lipgloss.Color

	Border lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for CLI output.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Playing lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#1db954"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#f0f0f5"),
	FgMuted:  lipgloss.Color("#a0a0ab"),
	FgSubtle: lipgloss.Color("#60606b"),

	BgBase:   lipgloss.Color("#0a0a10"),
	BgPanel:  lipgloss.Color("#16161f"),
	BgCursor: lipgloss.Color("#2a2a36"),

	Border: lipgloss.Color("#3a3a46"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#eb5757"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(t.FgMuted).
			Width(14),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// RGBA converts a theme color for drawing on a canvas.
func RGBA(c lipgloss.Color) color.NRGBA {
	r, g, b, _ := lipglossToColor(c).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}

// Canvas is the theme resolved to canvas colors.
type Canvas struct {
	Primary, Secondary        color.NRGBA
	Text, Muted, Subtle       color.NRGBA
	Background, Panel, Cursor color.NRGBA
	Success, Error            color.NRGBA
}

// Canvas resolves the theme for the device screens.
func (t *Theme) Canvas() Canvas {
	return Canvas{
		Primary:    RGBA(t.Primary),
		Secondary:  RGBA(t.Secondary),
		Text:       RGBA(t.FgBase),
		Muted:      RGBA(t.FgMuted),
		Subtle:     RGBA(t.FgSubtle),
		Background: RGBA(t.BgBase),
		Panel:      RGBA(t.BgPanel),
		Cursor:     RGBA(t.BgCursor),
		Success:    RGBA(t.Success),
		Error:      RGBA(t.Error),
	}
}
