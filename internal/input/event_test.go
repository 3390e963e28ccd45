package input

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode64(sec, usec int64, typ, code uint16, value int32) []byte {
	b := make([]byte, 24)
	binary.LittleEndian.PutUint64(b[0:], uint64(sec))
	binary.LittleEndian.PutUint64(b[8:], uint64(usec))
	binary.LittleEndian.PutUint16(b[16:], typ)
	binary.LittleEndian.PutUint16(b[18:], code)
	binary.LittleEndian.PutUint32(b[20:], uint32(value))
	return b
}

func encode32(sec, usec int32, typ, code uint16, value int32) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:], uint32(sec))
	binary.LittleEndian.PutUint32(b[4:], uint32(usec))
	binary.LittleEndian.PutUint16(b[8:], typ)
	binary.LittleEndian.PutUint16(b[10:], code)
	binary.LittleEndian.PutUint32(b[12:], uint32(value))
	return b
}

func TestDecodeEvents64(t *testing.T) {
	buf := append(encode64(100, 250000, EvRel, RelHWheel, -3), encode64(100, 260000, EvSyn, SynReport, 0)...)
	buf = append(buf, 1, 2, 3) // partial record

	events := decodeEvents(buf, layout64, binary.LittleEndian)
	require.Len(t, events, 2)
	assert.Equal(t, RawEvent{
		Time: time.Unix(100, 250_000_000), Type: EvRel, Code: RelHWheel, Value: -3,
	}, events[0])
	assert.Equal(t, EvSyn, events[1].Type)
}

func TestDecodeEvents32(t *testing.T) {
	events := decodeEvents(encode32(7, 1000, EvKey, 28, 1), layout32, binary.LittleEndian)
	require.Len(t, events, 1)
	assert.Equal(t, time.Unix(7, 1_000_000), events[0].Time)
	assert.Equal(t, uint16(28), events[0].Code)
	assert.Equal(t, int32(1), events[0].Value)
}

func TestDiscover(t *testing.T) {
	probed := []string{}
	probe := func(path string) (AxisRange, AxisRange, error) {
		probed = append(probed, path)
		switch path {
		case "/dev/input/event2":
			return AxisRange{0, 0}, AxisRange{0, 0}, nil
		case "/dev/input/event4":
			return AxisRange{0, 4095}, AxisRange{0, 4095}, nil
		}
		return AxisRange{}, AxisRange{}, ErrNoTouchDevice
	}

	dev, err := discover(TouchCandidates, probe, nil)
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event4", dev.Path)
	assert.Equal(t, []string{"/dev/input/event3", "/dev/input/event2", "/dev/input/event4"}, probed)
}

func TestDiscover_NoneFound(t *testing.T) {
	probe := func(string) (AxisRange, AxisRange, error) {
		return AxisRange{}, AxisRange{}, errors.New("no such device")
	}
	_, err := discover([]string{"a", "b", "a"}, probe, nil)
	assert.ErrorIs(t, err, ErrNoTouchDevice)
}
