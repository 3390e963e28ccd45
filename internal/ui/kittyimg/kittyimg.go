// Package kittyimg writes images to terminals speaking the Kitty graphics
// protocol, so dashctl can show the cover the dashboard is displaying.
package kittyimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	chunkSize = 4096 // max payload bytes per escape sequence

	// Covers are downscaled before transmission; terminals scale to the
	// cell box anyway.
	maxPixels = 512
)

// Encode returns the escape sequences that display img in a cols x rows
// cell box. It returns "" for a nil image or an empty box.
func Encode(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() > maxPixels || b.Dy() > maxPixels {
		img = imaging.Fit(img, maxPixels, maxPixels, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	// a=T transmit and display, f=100 PNG; m=1 while more chunks follow.
	var sb strings.Builder
	for i := 0; i < len(payload); i += chunkSize {
		end := min(i+chunkSize, len(payload))
		more := 0
		if end < len(payload) {
			more = 1
		}
		if i == 0 {
			fmt.Fprintf(&sb, "\x1b_Ga=T,f=100,c=%d,r=%d,m=%d;%s\x1b\\", cols, rows, more, payload[i:end])
		} else {
			fmt.Fprintf(&sb, "\x1b_Gm=%d;%s\x1b\\", more, payload[i:end])
		}
	}
	return sb.String()
}

// Placeholder draws a boxed note for a missing cover.
func Placeholder(cols, rows int) string {
	if cols < 4 || rows < 2 {
		return ""
	}

	lines := make([]string, 0, rows)
	lines = append(lines, "┌"+strings.Repeat("─", cols-2)+"┐")
	for i := 1; i < rows-1; i++ {
		if i == rows/2 && cols >= 5 {
			pad := (cols - 3) / 2
			lines = append(lines, "│"+strings.Repeat(" ", pad)+"♪"+strings.Repeat(" ", cols-3-pad)+"│")
			continue
		}
		lines = append(lines, "│"+strings.Repeat(" ", cols-2)+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", cols-2)+"┘")
	return strings.Join(lines, "\n")
}
