// Package keymap maps evdev key codes to the device's logical buttons.
package keymap

// Button is a logical hardware button.
type Button int

// Trackable buttons come first; their values are indices into the
// per-button state of an input snapshot.
const (
	ButtonUp Button = iota
	ButtonDown
	ButtonDisplayMode
	ButtonStyleCycle
	ButtonMenu
	ButtonScreenshot

	ButtonBack
	ButtonSelect

	ButtonNone Button = -1
)

// TrackableButtons is the number of buttons with press/hold/release tracking.
const TrackableButtons = 6

// Trackable reports whether b has per-button tracking.
func (b Button) Trackable() bool {
	return b >= 0 && b < TrackableButtons
}

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonDisplayMode:
		return "display_mode"
	case ButtonStyleCycle:
		return "style_cycle"
	case ButtonMenu:
		return "menu"
	case ButtonScreenshot:
		return "screenshot"
	case ButtonBack:
		return "back"
	case ButtonSelect:
		return "select"
	default:
		return "none"
	}
}

// ParseButton parses a button name as printed by String.
func ParseButton(s string) Button {
	for b := ButtonUp; b <= ButtonSelect; b++ {
		if b.String() == s {
			return b
		}
	}
	return ButtonNone
}
