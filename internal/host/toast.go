package host

import (
	"image/color"
	"time"

	"github.com/llehouerou/mediadash/internal/render"
)

const (
	toastDuration = 3 * time.Second
	toastFade     = 300 * time.Millisecond
	toastHeight   = 56.0
	toastMargin   = 16.0
	toastFontSize = 20.0
)

var (
	toastBackground = color.NRGBA{R: 20, G: 20, B: 28, A: 230}
	toastText       = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	toastError      = color.NRGBA{R: 235, G: 87, B: 87, A: 255}
)

type toast struct {
	title, body string
	isError     bool
	until       time.Time
}

// toasts shows one message at a time, oldest first.
type toasts struct {
	queue []toast
}

func (t *toasts) push(title, body string, isError bool) {
	// Collapse repeats of the message already queued last.
	if n := len(t.queue); n > 0 && t.queue[n-1].title == title && t.queue[n-1].body == body {
		return
	}
	t.queue = append(t.queue, toast{title: title, body: body, isError: isError})
}

func (t *toasts) current(now time.Time) (toast, bool) {
	for len(t.queue) > 0 {
		head := &t.queue[0]
		if head.until.IsZero() {
			head.until = now.Add(toastDuration)
		}
		if now.Before(head.until) {
			return *head, true
		}
		t.queue = t.queue[1:]
	}
	return toast{}, false
}

func (t *toasts) draw(c render.Canvas, now time.Time) {
	msg, ok := t.current(now)
	if !ok {
		return
	}
	alpha := 1.0
	if left := msg.until.Sub(now); left < toastFade {
		alpha = float64(left) / float64(toastFade)
	}

	w, h := c.Size()
	x, y := toastMargin, float64(h)-toastHeight-toastMargin
	bw := float64(w) - 2*toastMargin
	c.FillRoundedRect(x, y, bw, toastHeight, 12, render.WithAlpha(toastBackground, alpha*0.9))
	if msg.isError {
		c.FillRect(x, y+8, 4, toastHeight-16, render.WithAlpha(toastError, alpha))
	}

	text := msg.title
	if msg.body != "" {
		text += ": " + msg.body
	}
	text = render.Truncate(c, text, toastFontSize, bw-40)
	c.Text(text, x+20, y+toastHeight/2, toastFontSize, render.WithAlpha(toastText, alpha), render.AlignLeft)
}
