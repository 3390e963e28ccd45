package keymap

// Linux input key codes used by the device (linux/input-event-codes.h).
const (
	KeyEsc    uint16 = 1
	Key1      uint16 = 2
	Key2      uint16 = 3
	Key3      uint16 = 4
	Key4      uint16 = 5
	KeyEnter  uint16 = 28
	KeyM      uint16 = 50
	KeySysRq  uint16 = 99
	KeyUp     uint16 = 103
	KeyDown   uint16 = 108
	KeyBack   uint16 = 158
	KeyPrint  uint16 = 210
	KeySelect uint16 = 353
)

// Binding describes the key codes behind one button.
type Binding struct {
	Button      Button
	Codes       []uint16
	Description string
	Context     string // "navigation", "playback", "system"
}

// Bindings is the default device layout.
var Bindings = []Binding{
	// Navigation
	{ButtonBack, []uint16{KeyEsc, KeyBack}, "Close plugin", "navigation"},
	{ButtonSelect, []uint16{KeyEnter, KeySelect}, "Select / play-pause", "navigation"},
	{ButtonUp, []uint16{Key1, KeyUp}, "Preset 1 / up", "navigation"},
	{ButtonDown, []uint16{Key2, KeyDown}, "Preset 2 / down", "navigation"},

	// Playback
	{ButtonDisplayMode, []uint16{Key3}, "Cycle display mode", "playback"},
	{ButtonStyleCycle, []uint16{Key4}, "Cycle background style", "playback"},

	// System
	{ButtonMenu, []uint16{KeyM}, "Open menu", "system"},
	{ButtonScreenshot, []uint16{KeySysRq, KeyPrint}, "Toggle backlight", "system"},
}

// ByContext returns bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
