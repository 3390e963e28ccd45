// Package input folds raw evdev events from the rotary encoder, buttons and
// touchscreen into one per-frame snapshot.
package input

import (
	"encoding/binary"
	"errors"
	"time"
)

// Event types and codes (linux/input-event-codes.h).
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03

	SynReport uint16 = 0x00

	RelHWheel uint16 = 0x06
	RelWheel  uint16 = 0x08

	AbsX            uint16 = 0x00
	AbsY            uint16 = 0x01
	AbsMTPositionX  uint16 = 0x35
	AbsMTPositionY  uint16 = 0x36
	AbsMTTrackingID uint16 = 0x39

	BtnLeft  uint16 = 0x110
	BtnTouch uint16 = 0x14a

	absMax uint16 = 0x3f
)

// EV_KEY values.
const (
	keyRelease = 0
	keyPress   = 1
)

// ErrNoTouchDevice is returned when no candidate node exposes X and Y axes.
var ErrNoTouchDevice = errors.New("input: no touch device found")

// RawEvent is one decoded input_event.
type RawEvent struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

// Source yields the events that arrived since the last call. It must not
// block.
type Source interface {
	Poll() ([]RawEvent, error)
	Close() error
}

// eventLayout describes struct input_event for one ABI.
type eventLayout struct {
	timeSize int // 16 on 64-bit, 8 on 32-bit
	size     int
}

var (
	layout64 = eventLayout{timeSize: 16, size: 24}
	layout32 = eventLayout{timeSize: 8, size: 16}
)

// decodeEvents decodes whole input_event records from buf. Trailing
// partial records are ignored.
func decodeEvents(buf []byte, l eventLayout, order binary.ByteOrder) []RawEvent {
	events := make([]RawEvent, 0, len(buf)/l.size)
	for off := 0; off+l.size <= len(buf); off += l.size {
		rec := buf[off : off+l.size]
		var sec, usec int64
		if l.timeSize == 16 {
			sec = int64(order.Uint64(rec[0:8]))
			usec = int64(order.Uint64(rec[8:16]))
		} else {
			sec = int64(int32(order.Uint32(rec[0:4])))
			usec = int64(int32(order.Uint32(rec[4:8])))
		}
		p := rec[l.timeSize:]
		events = append(events, RawEvent{
			Time:  time.Unix(sec, usec*int64(time.Microsecond)),
			Type:  order.Uint16(p[0:2]),
			Code:  order.Uint16(p[2:4]),
			Value: int32(order.Uint32(p[4:8])),
		})
	}
	return events
}
