// Package playback turns periodic broker reads into change events for
// in-process subscribers.
package playback

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/media"
)

// StateSource is the slice of the media service the bus polls.
type StateSource interface {
	GetState(ctx context.Context) (media.State, bool)
	BLEStatus(ctx context.Context) (connected bool, name string, ok bool)
}

// Verify media.Service satisfies StateSource at compile time.
var _ StateSource = (*media.Service)(nil)

type snapshot struct {
	state      media.State
	connOK     bool
	connected  bool
	deviceName string
}

// Bus diffs successive polls and dispatches change events. It is not safe
// for concurrent use; Poll, Subscribe and Notify belong to the frame loop.
type Bus struct {
	src StateSource
	log *zap.Logger
	now func() time.Time

	subs   [numEventTypes][]*subscription
	nextID SubscriptionID

	last  snapshot
	valid bool

	notifications notificationRing
}

// NewBus creates a bus over src.
func NewBus(src StateSource, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		src: src,
		log: log.Named("bus"),
		now: time.Now,
	}
}

// Subscribe registers fn for one event type. A subscriber added after the
// first poll still receives an initial event on its next poll.
func (b *Bus) Subscribe(t EventType, fn Handler) (SubscriptionID, error) {
	if t < 0 || t >= numEventTypes || fn == nil {
		return 0, ErrInvalidSubscription
	}
	if len(b.subs[t]) >= MaxSubscribers {
		return 0, ErrTooManySubscribers
	}
	b.nextID++
	b.subs[t] = append(b.subs[t], &subscription{id: b.nextID, event: t, fn: fn})
	return b.nextID, nil
}

// SubscribeChannel registers a buffered channel for one event type.
func (b *Bus) SubscribeChannel(t EventType) (*ChannelSubscription, error) {
	cs := newChannelSubscription()
	id, err := b.Subscribe(t, cs.send)
	if err != nil {
		return nil, err
	}
	cs.ID = id
	return cs, nil
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	for t := range b.subs {
		b.subs[t] = lo.Reject(b.subs[t], func(s *subscription, _ int) bool {
			if s.id != id {
				return false
			}
			s.fn = nil
			return true
		})
	}
}

// Subscribers returns the number of subscribers for t.
func (b *Bus) Subscribers(t EventType) int {
	if t < 0 || t >= numEventTypes {
		return 0
	}
	return len(b.subs[t])
}

// Notify queues an in-process notification for the next poll and returns
// its id. When the queue is full the oldest entry is dropped.
func (b *Bus) Notify(title, body string) string {
	n := newNotification(title, body, b.now())
	if b.notifications.push(n) {
		b.log.Debug("notification queue full, dropped oldest")
	}
	return n.ID
}

// Pending returns the number of queued notifications.
func (b *Bus) Pending() int {
	return b.notifications.len()
}

// Reset forgets the last observed state, so the next valid poll delivers
// initial events to every subscriber again.
func (b *Bus) Reset() {
	b.valid = false
	b.last = snapshot{}
	for t := range b.subs {
		for _, s := range b.subs[t] {
			s.primed = false
		}
	}
}

// Poll reads the current state and dispatches whatever changed since the
// previous valid poll. Failed reads dispatch nothing and keep the previous
// state. Queued notifications are drained when someone listens for them.
func (b *Bus) Poll(ctx context.Context) {
	if cur, ok := b.read(ctx); ok {
		b.dispatchState(cur)
	}
	b.drainNotifications()
}

func (b *Bus) read(ctx context.Context) (snapshot, bool) {
	st, ok := b.src.GetState(ctx)
	if !ok {
		return snapshot{}, false
	}
	cur := snapshot{state: st}
	cur.connected, cur.deviceName, cur.connOK = b.src.BLEStatus(ctx)
	if !cur.connOK && b.valid {
		// Keep the last known link state rather than reporting a flap.
		cur.connected, cur.deviceName = b.last.connected, b.last.deviceName
	}
	return cur, true
}

func (b *Bus) dispatchState(cur snapshot) {
	prev := b.last
	var types []EventType
	if b.valid {
		types = changed(prev, cur)
	}
	b.last = cur
	b.valid = true

	type delivery struct {
		sub *subscription
		e   Event
	}
	var out []delivery
	for _, t := range types {
		e := stateEvent(t, false, prev, cur)
		for _, s := range b.subs[t] {
			if s.primed {
				out = append(out, delivery{s, e})
			}
		}
	}
	for t := EventTrackChanged; t < EventNotification; t++ {
		for _, s := range b.subs[t] {
			if !s.primed {
				s.primed = true
				out = append(out, delivery{s, stateEvent(t, true, snapshot{}, cur)})
			}
		}
	}

	for _, d := range out {
		// Handlers may unsubscribe others while we dispatch.
		if d.sub.fn != nil {
			d.sub.fn(d.e)
		}
	}
	if len(types) > 0 {
		b.log.Debug("dispatched", zap.Stringers("events", types))
	}
}

func stateEvent(t EventType, initial bool, prev, cur snapshot) Event {
	return Event{
		Type:       t,
		Initial:    initial,
		State:      cur.state,
		Previous:   prev.state,
		Connected:  cur.connected,
		DeviceName: cur.deviceName,
	}
}

func (b *Bus) drainNotifications() {
	if len(b.subs[EventNotification]) == 0 {
		return
	}
	for {
		n, ok := b.notifications.pop()
		if !ok {
			return
		}
		e := Event{Type: EventNotification, Notification: n}
		for _, s := range append([]*subscription(nil), b.subs[EventNotification]...) {
			if s.fn != nil {
				s.fn(e)
			}
		}
	}
}
