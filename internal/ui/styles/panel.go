package styles

import "github.com/charmbracelet/lipgloss"

// Panel boxes CLI output; accent panels use the primary color.
func Panel(accent bool) lipgloss.Style {
	border := T().Border
	if accent {
		border = T().Primary
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// Field renders an aligned "label value" line.
func Field(label, value string) string {
	s := T().S()
	return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), s.Base.Render(value))
}
