package playback

import (
	"time"

	"github.com/google/uuid"
)

// notificationCapacity bounds the in-process notification queue.
const notificationCapacity = 16

// notificationRing is a fixed-size FIFO that drops its oldest entry on
// overflow.
type notificationRing struct {
	buf   [notificationCapacity]Notification
	head  int
	count int
}

func (r *notificationRing) push(n Notification) (dropped bool) {
	if r.count == notificationCapacity {
		r.head = (r.head + 1) % notificationCapacity
		r.count--
		dropped = true
	}
	r.buf[(r.head+r.count)%notificationCapacity] = n
	r.count++
	return dropped
}

func (r *notificationRing) pop() (Notification, bool) {
	if r.count == 0 {
		return Notification{}, false
	}
	n := r.buf[r.head]
	r.buf[r.head] = Notification{}
	r.head = (r.head + 1) % notificationCapacity
	r.count--
	return n, true
}

func (r *notificationRing) len() int {
	return r.count
}

func newNotification(title, body string, at time.Time) Notification {
	return Notification{
		ID:    uuid.NewString(),
		Title: title,
		Body:  body,
		At:    at,
	}
}
