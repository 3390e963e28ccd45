package input

import "time"

// Gesture thresholds.
const (
	TapMaxDuration     = 300 * time.Millisecond
	TapMaxDistance     = 30.0
	DoubleTapWindow    = 350 * time.Millisecond
	SwipeMinDistance   = 80.0
	TouchHoldThreshold = 700 * time.Millisecond

	// ButtonHoldThreshold splits a click from a hold.
	ButtonHoldThreshold = 500 * time.Millisecond
)

// Gesture is the classification of a completed touch.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureTap
	GestureDoubleTap
	GestureHold
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
)

func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double_tap"
	case GestureHold:
		return "hold"
	case GestureSwipeLeft:
		return "swipe_left"
	case GestureSwipeRight:
		return "swipe_right"
	case GestureSwipeUp:
		return "swipe_up"
	case GestureSwipeDown:
		return "swipe_down"
	default:
		return "none"
	}
}

// touchTracker follows one touch from press to release.
type touchTracker struct {
	active    bool
	start     Point
	startAt   time.Time
	holdFired bool

	lastTapAt  time.Time
	lastTapPos Point
	hasLastTap bool
}

func (t *touchTracker) press(p Point, at time.Time) {
	t.active = true
	t.start = p
	t.startAt = at
	t.holdFired = false
}

// checkHold fires once when a stationary touch passes the hold threshold.
func (t *touchTracker) checkHold(cur Point, now time.Time) bool {
	if !t.active || t.holdFired {
		return false
	}
	if now.Sub(t.startAt) > TouchHoldThreshold && cur.Dist(t.start) < TapMaxDistance {
		t.holdFired = true
		return true
	}
	return false
}

// release classifies the completed touch. A double tap replaces the tap,
// and a touch that already fired a hold never becomes a swipe.
func (t *touchTracker) release(end Point, at time.Time) Gesture {
	t.active = false
	elapsed := at.Sub(t.startAt)
	delta := end.Sub(t.start)
	dist := end.Dist(t.start)

	switch {
	case elapsed < TapMaxDuration && dist < TapMaxDistance:
		if t.hasLastTap && at.Sub(t.lastTapAt) <= DoubleTapWindow &&
			end.Dist(t.lastTapPos) < TapMaxDistance {
			t.hasLastTap = false
			return GestureDoubleTap
		}
		t.hasLastTap = true
		t.lastTapAt = at
		t.lastTapPos = end
		return GestureTap
	case t.holdFired:
		return GestureNone
	case elapsed > TouchHoldThreshold && dist < TapMaxDistance:
		// Released before a frame could report the hold.
		t.holdFired = true
		return GestureHold
	case dist >= SwipeMinDistance:
		if abs(delta.X) >= abs(delta.Y) {
			if delta.X < 0 {
				return GestureSwipeLeft
			}
			return GestureSwipeRight
		}
		if delta.Y < 0 {
			return GestureSwipeUp
		}
		return GestureSwipeDown
	default:
		return GestureNone
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
