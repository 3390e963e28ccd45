// Package icons selects the glyphs screens use for playback controls, so
// the set can match the glyph coverage of the configured font.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs of one style.
type Icons struct {
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Favorite  string
	Playing   string
	Note      string
}

var (
	nerdIcons = Icons{
		Shuffle:   "󰒟", // nf-md-shuffle
		RepeatAll: "󰑖", // nf-md-repeat
		RepeatOne: "󰑘", // nf-md-repeat_once
		Favorite:  "󰣐", // nf-md-heart
		Playing:   "󰐊", // nf-md-play
		Note:      "󰝚", // nf-md-music_note
	}

	unicodeIcons = Icons{
		Shuffle:   "⤮",
		RepeatAll: "↻",
		RepeatOne: "↻1",
		Favorite:  "♥",
		Playing:   "▶",
		Note:      "♪",
	}

	noneIcons = Icons{
		Shuffle:   "S",
		RepeatAll: "R",
		RepeatOne: "R1",
		Favorite:  "<3",
		Playing:   ">",
		Note:      "",
	}

	current = unicodeIcons
)

// Init selects the style. Unknown names fall back to plain ASCII.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// Repeat returns the icon for a repeat button; one selects the
// single-track variant.
func Repeat(one bool) string {
	if one {
		return current.RepeatOne
	}
	return current.RepeatAll
}

// Favorite returns the like/heart icon.
func Favorite() string {
	return current.Favorite
}

// Note is the cover placeholder glyph. It is empty in the ASCII style.
func Note() string {
	return current.Note
}

// FormatPlaying prefixes the currently playing entry.
func FormatPlaying(name string) string {
	return current.Playing + " " + name
}
