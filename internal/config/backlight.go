package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// BrightnessAuto selects the light-sensor driven brightness.
const BrightnessAuto = -1

// PanelRange is the hardware backlight range. The panel is inverted: Max
// is the darkest level and Min the brightest.
type PanelRange struct {
	Min int
	Max int
	Off int
}

// DefaultPanelRange matches the device's sysfs backlight.
var DefaultPanelRange = PanelRange{Min: 0, Max: 255, Off: 255}

// Level maps a 0..100 percentage to the hardware value.
func (r PanelRange) Level(pct int) int {
	pct = min(max(pct, 0), 100)
	return r.Max - pct*(r.Max-r.Min)/100
}

// Panel writes raw backlight values.
type Panel interface {
	Write(value int) error
}

// AutoBrightness controls the light-sensor service.
type AutoBrightness interface {
	Start() error
	Stop() error
}

// SysfsPanel writes the backlight through a sysfs brightness file.
type SysfsPanel string

// Write writes value to the brightness file.
func (p SysfsPanel) Write(value int) error {
	return os.WriteFile(string(p), []byte(strconv.Itoa(value)+"\n"), 0o644)
}

// RunitService starts and stops a runit service through its down marker.
type RunitService string

func (s RunitService) marker() string {
	return filepath.Join(string(s), "down")
}

// Start removes the down marker.
func (s RunitService) Start() error {
	err := os.Remove(s.marker())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Stop writes the down marker.
func (s RunitService) Stop() error {
	return os.WriteFile(s.marker(), nil, 0o644)
}

// Running reports whether the down marker is absent.
func (s RunitService) Running() bool {
	_, err := os.Stat(s.marker())
	return errors.Is(err, fs.ErrNotExist)
}
