package playback

import (
	"time"

	"github.com/llehouerou/mediadash/internal/media"
)

// EventType selects which changes a subscriber receives.
type EventType int

const (
	EventTrackChanged EventType = iota
	EventPlaystateChanged
	EventVolumeChanged
	EventPositionChanged
	EventAlbumArtChanged
	EventConnectionChanged
	EventNotification

	numEventTypes
)

func (t EventType) String() string {
	switch t {
	case EventTrackChanged:
		return "TrackChanged"
	case EventPlaystateChanged:
		return "PlaystateChanged"
	case EventVolumeChanged:
		return "VolumeChanged"
	case EventPositionChanged:
		return "PositionChanged"
	case EventAlbumArtChanged:
		return "AlbumArtChanged"
	case EventConnectionChanged:
		return "ConnectionChanged"
	case EventNotification:
		return "Notification"
	default:
		return "Unknown"
	}
}

// Event is one dispatched change.
//
// State and Previous are set for the state-derived events; Connected and
// DeviceName for ConnectionChanged; Notification for Notification events.
// Initial marks the synthetic event a subscriber receives on its first
// valid poll, in which case Previous is the zero state.
type Event struct {
	Type     EventType
	Initial  bool
	State    media.State
	Previous media.State

	Connected  bool
	DeviceName string

	Notification Notification
}

// Notification is an in-process message queued with Bus.Notify.
type Notification struct {
	ID    string
	Title string
	Body  string
	At    time.Time
}

// positionThreshold is the smallest position move reported.
const positionThreshold = 1

// changed reports the event types whose values differ between prev and cur.
func changed(prev, cur snapshot) []EventType {
	var out []EventType
	if !cur.state.SameTrack(prev.state) {
		out = append(out, EventTrackChanged)
	}
	if cur.state.IsPlaying != prev.state.IsPlaying {
		out = append(out, EventPlaystateChanged)
	}
	if cur.state.Volume >= 0 && cur.state.Volume != prev.state.Volume {
		out = append(out, EventVolumeChanged)
	}
	if abs(cur.state.Position-prev.state.Position) >= positionThreshold ||
		cur.state.Duration != prev.state.Duration {
		out = append(out, EventPositionChanged)
	}
	if cur.state.AlbumArtPath != prev.state.AlbumArtPath {
		out = append(out, EventAlbumArtChanged)
	}
	if cur.connOK && (cur.connected != prev.connected || cur.deviceName != prev.deviceName) {
		out = append(out, EventConnectionChanged)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
