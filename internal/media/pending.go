package media

import (
	"context"
	"time"
)

// Cadences for request-then-poll lookups.
const (
	CatalogPollInterval  = 500 * time.Millisecond
	CatalogTimeout       = 5 * time.Second
	LyricsRetryInterval  = time.Second
	QueueRefreshInterval = 10 * time.Second
)

// PendingState is the phase of a request-then-poll lookup.
type PendingState int

const (
	PendingIdle PendingState = iota
	PendingLoading
	PendingReady
	PendingTimedOut
)

func (p PendingState) String() string {
	switch p {
	case PendingLoading:
		return "loading"
	case PendingReady:
		return "ready"
	case PendingTimedOut:
		return "timed out"
	default:
		return "idle"
	}
}

// Pending pushes a request once, then polls a response getter at a fixed
// cadence until a value is accepted or the timeout passes. It never
// blocks; call Update once per frame.
type Pending[T any] struct {
	Request func(ctx context.Context) bool
	Fetch   func(ctx context.Context) (T, bool)
	// Accept filters stale responses. Nil accepts everything.
	Accept func(T) bool

	Interval time.Duration
	// Zero means poll until a value arrives.
	Timeout time.Duration

	state    PendingState
	value    T
	started  time.Time
	lastPoll time.Time
}

// Start sends the request and begins polling. A failed push leaves the
// lookup idle.
func (p *Pending[T]) Start(ctx context.Context, now time.Time) bool {
	if p.Request != nil && !p.Request(ctx) {
		p.state = PendingIdle
		return false
	}
	p.state = PendingLoading
	p.started = now
	p.lastPoll = time.Time{}
	return true
}

// Update polls when due. It returns true on the frame the lookup settles.
func (p *Pending[T]) Update(ctx context.Context, now time.Time) bool {
	if p.state != PendingLoading {
		return false
	}
	interval := p.Interval
	if interval <= 0 {
		interval = CatalogPollInterval
	}
	if !p.lastPoll.IsZero() && now.Sub(p.lastPoll) < interval {
		return false
	}
	p.lastPoll = now

	if v, ok := p.Fetch(ctx); ok && (p.Accept == nil || p.Accept(v)) {
		p.value = v
		p.state = PendingReady
		return true
	}
	if p.Timeout > 0 && now.Sub(p.started) >= p.Timeout {
		p.state = PendingTimedOut
		return true
	}
	return false
}

// Reset returns to idle, keeping the last value.
func (p *Pending[T]) Reset() {
	p.state = PendingIdle
}

func (p *Pending[T]) State() PendingState { return p.state }
func (p *Pending[T]) Loading() bool       { return p.state == PendingLoading }
func (p *Pending[T]) Value() T            { return p.value }

// Every reports when a fixed interval has elapsed.
type Every struct {
	Interval time.Duration
	last     time.Time
}

// Due returns true on the first call and then once per interval.
func (e *Every) Due(now time.Time) bool {
	if !e.last.IsZero() && now.Sub(e.last) < e.Interval {
		return false
	}
	e.last = now
	return true
}

// Reset makes the next Due call fire.
func (e *Every) Reset() {
	e.last = time.Time{}
}
