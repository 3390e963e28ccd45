// Package navigation carries a plugin-switch request from the active plugin
// to the host.
package navigation

import "unicode/utf8"

// MaxNameLength caps a requested plugin name, in bytes.
const MaxNameLength = 128

// Slot holds at most one pending request. It is only touched from the
// frame loop.
type Slot struct {
	name    string
	pending bool
}

// Request asks the host to open the named plugin, replacing any earlier
// request. An empty name clears the slot. Names longer than MaxNameLength
// are cut at a rune boundary.
func (s *Slot) Request(name string) {
	if name == "" {
		s.Clear()
		return
	}
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}
	s.name = name
	s.pending = true
}

// Pending returns the requested name without consuming it.
func (s *Slot) Pending() (string, bool) {
	return s.name, s.pending
}

// Take returns the requested name and clears the slot.
func (s *Slot) Take() (string, bool) {
	name, ok := s.name, s.pending
	s.Clear()
	return name, ok
}

// Clear drops any pending request.
func (s *Slot) Clear() {
	s.name = ""
	s.pending = false
}
