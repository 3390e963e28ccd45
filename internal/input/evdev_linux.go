//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// nativeLayout matches struct input_event for this build.
var nativeLayout = func() eventLayout {
	if unsafe.Sizeof(unix.Timeval{}) == 8 {
		return layout32
	}
	return layout64
}()

// EvdevSource reads a /dev/input/event* node without blocking.
type EvdevSource struct {
	path string
	fd   int
	buf  []byte
}

// OpenEvdev opens an event node in non-blocking mode.
func OpenEvdev(path string) (*EvdevSource, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &EvdevSource{
		path: path,
		fd:   fd,
		buf:  make([]byte, nativeLayout.size*64),
	}, nil
}

// Path returns the device node.
func (s *EvdevSource) Path() string { return s.path }

// Poll drains every pending event.
func (s *EvdevSource) Poll() ([]RawEvent, error) {
	var out []RawEvent
	for {
		n, err := unix.Read(s.fd, s.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				return out, nil
			}
			return out, fmt.Errorf("read %s: %w", s.path, err)
		}
		if n <= 0 {
			return out, nil
		}
		out = append(out, decodeEvents(s.buf[:n], nativeLayout, binary.NativeEndian)...)
		if n < len(s.buf) {
			return out, nil
		}
	}
}

// Close releases the node.
func (s *EvdevSource) Close() error {
	return unix.Close(s.fd)
}

// ioctl request encoding (asm-generic/ioctl.h).
func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

const iocRead = 2

func eviocgbit(ev, size uintptr) uintptr { return ioc(iocRead, 'E', 0x20+ev, size) }
func eviocgabs(abs uintptr) uintptr      { return ioc(iocRead, 'E', 0x40+abs, unsafe.Sizeof(absInfo{})) }

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func ioctlPtr(fd int, req uintptr, p unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(p))
	if errno != 0 {
		return errno
	}
	return nil
}

// probeAxes returns the X and Y ranges of a node that exposes both
// absolute axes.
func probeAxes(path string) (AxisRange, AxisRange, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return AxisRange{}, AxisRange{}, err
	}
	defer unix.Close(fd)

	bits := make([]byte, (absMax+8)/8)
	if err := ioctlPtr(fd, eviocgbit(uintptr(EvAbs), uintptr(len(bits))), unsafe.Pointer(&bits[0])); err != nil {
		return AxisRange{}, AxisRange{}, fmt.Errorf("EVIOCGBIT %s: %w", path, err)
	}
	hasBit := func(code uint16) bool { return bits[code/8]&(1<<(code%8)) != 0 }

	xCode, yCode := AbsX, AbsY
	if !hasBit(xCode) || !hasBit(yCode) {
		xCode, yCode = AbsMTPositionX, AbsMTPositionY
		if !hasBit(xCode) || !hasBit(yCode) {
			return AxisRange{}, AxisRange{}, ErrNoTouchDevice
		}
	}

	var x, y absInfo
	if err := ioctlPtr(fd, eviocgabs(uintptr(xCode)), unsafe.Pointer(&x)); err != nil {
		return AxisRange{}, AxisRange{}, fmt.Errorf("EVIOCGABS %s: %w", path, err)
	}
	if err := ioctlPtr(fd, eviocgabs(uintptr(yCode)), unsafe.Pointer(&y)); err != nil {
		return AxisRange{}, AxisRange{}, fmt.Errorf("EVIOCGABS %s: %w", path, err)
	}
	return AxisRange{x.Minimum, x.Maximum}, AxisRange{y.Minimum, y.Maximum}, nil
}

// openSource adapts OpenEvdev to the Source interface.
func openSource(path string) (Source, error) {
	return OpenEvdev(path)
}
