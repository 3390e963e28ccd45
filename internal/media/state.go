package media

import (
	"strings"
	"time"
)

// RepeatMode is the phone-side repeat setting.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatTrack
	RepeatContext
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatTrack:
		return "track"
	case RepeatContext:
		return "context"
	default:
		return "unknown"
	}
}

// Next returns the mode that follows m in the off -> track -> context cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatTrack
	case RepeatTrack:
		return RepeatContext
	default:
		return RepeatOff
	}
}

// ParseRepeatMode parses track|context|off case-insensitively. Spotify's
// "all" and "one" aliases are accepted too.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "0":
		return RepeatOff, true
	case "track", "one":
		return RepeatTrack, true
	case "context", "all":
		return RepeatContext, true
	}
	return RepeatOff, false
}

// State is a snapshot of the phone's playback state.
type State struct {
	Track        string
	Artist       string
	Album        string
	AlbumArtPath string

	SpotifyTrackID  string
	SpotifyAlbumID  string
	SpotifyArtistID string

	Position int // seconds
	Duration int // seconds
	Volume   int // percent, -1 when unknown

	IsPlaying      bool
	IsLiked        bool
	ShuffleEnabled bool
	Repeat         RepeatMode

	FetchedAt time.Time
}

// HasTrack reports whether any track metadata is present.
func (s State) HasTrack() bool {
	return s.Track != "" || s.Artist != "" || s.Album != ""
}

// SameTrack reports whether s and o describe the same track.
func (s State) SameTrack(o State) bool {
	return s.Track == o.Track && s.Artist == o.Artist && s.Album == o.Album
}

// Progress returns position/duration in [0,1], or 0 when duration is unknown.
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Position) / float64(s.Duration)
}

// normalize enforces 0 <= position <= duration and volume in {-1} ∪ [0,100].
func (s *State) normalize() {
	if s.Position < 0 {
		s.Position = 0
	}
	if s.Duration < 0 {
		s.Duration = 0
	}
	if s.Duration > 0 && s.Position > s.Duration {
		s.Position = s.Duration
	}
	if s.Volume < -1 {
		s.Volume = -1
	}
	if s.Volume > 100 {
		s.Volume = 100
	}
}
