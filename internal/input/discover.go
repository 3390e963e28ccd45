package input

import (
	"fmt"

	"go.uber.org/zap"
)

// TouchCandidates is the probe order for the touchscreen node.
var TouchCandidates = []string{
	"/dev/input/event3",
	"/dev/input/event2",
	"/dev/input/event4",
	"/dev/input/event5",
	"/dev/input/event0",
	"/dev/input/event1",
	"/dev/input/event6",
	"/dev/input/event7",
	"/dev/input/event8",
	"/dev/input/event9",
}

// ButtonNodes are the fixed nodes of the hardware buttons and the rotary
// encoder.
var ButtonNodes = []string{
	"/dev/input/event0",
	"/dev/input/event1",
}

// Device is a discovered touchscreen.
type Device struct {
	Path string
	X, Y AxisRange
}

// prober reports the axis ranges of a node; swapped in tests.
type prober func(path string) (AxisRange, AxisRange, error)

// DiscoverTouch returns the first candidate exposing X and Y absolute
// axes. Duplicate candidates are probed once.
func DiscoverTouch(candidates []string, log *zap.Logger) (Device, error) {
	return discover(candidates, probeAxes, log)
}

func discover(candidates []string, probe prober, log *zap.Logger) (Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	seen := make(map[string]bool, len(candidates))
	for _, path := range candidates {
		if seen[path] {
			continue
		}
		seen[path] = true

		x, y, err := probe(path)
		if err != nil {
			log.Debug("touch probe", zap.String("path", path), zap.Error(err))
			continue
		}
		if x.Max <= x.Min || y.Max <= y.Min {
			log.Debug("touch probe: degenerate axes", zap.String("path", path))
			continue
		}
		return Device{Path: path, X: x, Y: y}, nil
	}
	return Device{}, fmt.Errorf("%w (probed %d nodes)", ErrNoTouchDevice, len(seen))
}

// OpenSources opens every node, skipping the ones that fail. Missing
// devices are warned about and the others keep working.
func OpenSources(paths []string, log *zap.Logger) []Source {
	if log == nil {
		log = zap.NewNop()
	}
	var out []Source
	for _, p := range paths {
		src, err := openSource(p)
		if err != nil {
			log.Warn("input device unavailable", zap.String("path", p), zap.Error(err))
			continue
		}
		out = append(out, src)
	}
	return out
}
