package media

import (
	"context"
	"time"

	"github.com/llehouerou/mediadash/internal/broker"
)

// TimezoneCacheTTL bounds how long a phone timezone read is reused.
const TimezoneCacheTTL = 60 * time.Second

// Timezone is the phone's zone as published by the bridge.
type Timezone struct {
	ID     string
	Offset time.Duration
}

// Location returns a fixed zone for the offset, named after the id.
func (tz Timezone) Location() *time.Location {
	name := tz.ID
	if name == "" {
		name = "phone"
	}
	return time.FixedZone(name, int(tz.Offset/time.Second))
}

type timezoneCache struct {
	tz      Timezone
	ok      bool
	fetched time.Time
}

// Timezone returns the phone's timezone, read at most once per
// TimezoneCacheTTL.
func (s *Service) Timezone(ctx context.Context) (Timezone, bool) {
	now := s.now()
	if !s.tz.fetched.IsZero() && now.Sub(s.tz.fetched) < TimezoneCacheTTL {
		return s.tz.tz, s.tz.ok
	}

	s.tz.fetched = now
	vals, err := s.store.MGet(ctx, broker.KeyTimezoneOffset, broker.KeyTimezoneID)
	if err != nil {
		return s.tz.tz, s.tz.ok
	}
	minutes, ok := vals.Int(broker.KeyTimezoneOffset)
	if !ok {
		s.tz = timezoneCache{fetched: now}
		return Timezone{}, false
	}
	s.tz.tz = Timezone{
		ID:     vals[broker.KeyTimezoneID],
		Offset: time.Duration(minutes) * time.Minute,
	}
	s.tz.ok = true
	return s.tz.tz, true
}

// WallClock is a broken-down phone-local time.
type WallClock struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Weekday              time.Weekday
	// Fraction of the current second, in [0,1).
	Fraction float64
}

// PhoneTime returns the current time in the phone's zone. Without a
// published offset the device's local zone is used and ok is false.
func (s *Service) PhoneTime(ctx context.Context) (WallClock, bool) {
	now := s.now()
	tz, ok := s.Timezone(ctx)
	if ok {
		now = now.In(tz.Location())
	}
	return wallClock(now), ok
}

func wallClock(t time.Time) WallClock {
	return WallClock{
		Year:     t.Year(),
		Month:    int(t.Month()),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Weekday:  t.Weekday(),
		Fraction: float64(t.Nanosecond()) / float64(time.Second),
	}
}
