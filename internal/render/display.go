package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Display presents finished frames.
type Display interface {
	Present(frame *image.RGBA) error
	Close() error
}

// Framebuffer writes frames to a 32-bit BGRA linux framebuffer device.
type Framebuffer struct {
	f   *os.File
	buf []byte
}

// OpenFramebuffer opens a framebuffer device such as /dev/fb0.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{f: f}, nil
}

// Present converts frame to BGRA and writes it at offset 0.
func (fb *Framebuffer) Present(frame *image.RGBA) error {
	n := len(frame.Pix)
	if cap(fb.buf) < n {
		fb.buf = make([]byte, n)
	}
	buf := fb.buf[:n]
	for i := 0; i+3 < n; i += 4 {
		buf[i] = frame.Pix[i+2]
		buf[i+1] = frame.Pix[i+1]
		buf[i+2] = frame.Pix[i]
		buf[i+3] = frame.Pix[i+3]
	}
	if _, err := fb.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("write framebuffer: %w", err)
	}
	return nil
}

// Close closes the device.
func (fb *Framebuffer) Close() error {
	return fb.f.Close()
}

// Discard drops frames. Used on desktops without a framebuffer.
type Discard struct{}

func (Discard) Present(*image.RGBA) error { return nil }
func (Discard) Close() error              { return nil }

// SavePNG writes frame to path; used for screenshots.
func SavePNG(path string, frame image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
