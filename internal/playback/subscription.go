package playback

import "errors"

const (
	// MaxSubscribers bounds the subscribers of each event type.
	MaxSubscribers = 8

	eventBufferSize = 16
)

var (
	// ErrTooManySubscribers is returned when an event type is full.
	ErrTooManySubscribers = errors.New("playback: too many subscribers")

	ErrInvalidSubscription = errors.New("playback: invalid subscription")
)

// SubscriptionID identifies a subscription. Zero is never issued.
type SubscriptionID uint64

// Handler receives dispatched events. It runs on the polling goroutine and
// must not block.
type Handler func(Event)

type subscription struct {
	id     SubscriptionID
	event  EventType
	fn     Handler
	primed bool
}

// ChannelSubscription delivers events on a buffered channel instead of a
// callback. Events are dropped while the buffer is full.
type ChannelSubscription struct {
	ID     SubscriptionID
	Events <-chan Event

	ch chan Event
}

func newChannelSubscription() *ChannelSubscription {
	ch := make(chan Event, eventBufferSize)
	return &ChannelSubscription{Events: ch, ch: ch}
}

// send delivers an event (non-blocking).
func (s *ChannelSubscription) send(e Event) {
	select {
	case s.ch <- e:
	default:
		// Drop if buffer full
	}
}
