//go:build !linux

package input

import (
	"errors"
	"fmt"
)

var errUnsupported = errors.New("input: evdev requires linux")

func probeAxes(path string) (AxisRange, AxisRange, error) {
	return AxisRange{}, AxisRange{}, fmt.Errorf("%s: %w", path, errUnsupported)
}

func openSource(path string) (Source, error) {
	return nil, fmt.Errorf("%s: %w", path, errUnsupported)
}
