// Package ui provides shared layout constants and geometry for the
// plugin screens.
package ui

// Layout constants for consistent sizing across screens.
const (
	// ScrollMargin is the number of rows kept visible above/below the cursor.
	ScrollMargin = 1

	// Margin is the outer padding of every screen.
	Margin = 24.0

	// HeaderHeight is the title strip at the top of list screens.
	HeaderHeight = 64.0

	// RowHeight is the height of one list row.
	RowHeight = 68.0

	// TitleSize, BodySize and CaptionSize are the text sizes in pixels.
	TitleSize   = 30.0
	BodySize    = 24.0
	CaptionSize = 18.0

	// Corner is the radius of rounded panels.
	Corner = 14.0
)
