// Package host runs the frame loop: it reads input, drives the active
// plugin and presents frames, switching plugins on back presses and
// navigation requests.
package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/render"
)

const (
	// DefaultMenu is the plugin shown when nothing else is requested.
	DefaultMenu = "Menu"

	// maxFrameDelta caps dt after a stall so animations do not jump.
	maxFrameDelta = 0.25
	// retryDelay throttles reopening the menu after it failed.
	retryDelay = time.Second
)

// InputSource produces one input snapshot per frame.
type InputSource interface {
	Update(now time.Time) *input.State
}

// Surface is a canvas whose pixels can be presented.
type Surface interface {
	render.Canvas
	Image() *image.RGBA
}

// Options tunes the host.
type Options struct {
	FrameInterval time.Duration
	// StartupPlugin overrides the configured startup plugin.
	StartupPlugin string
	Menu          string
	ScreenshotDir string
}

// Host owns the active plugin. Run and Tick must be called from a single
// goroutine; RequestScreenshot may be called from any.
type Host struct {
	reg     *plugin.Registry
	env     *plugin.Env
	input   InputSource
	surface Surface
	display render.Display
	log     *zap.Logger
	opts    Options

	active     plugin.Plugin
	activeName string
	retryAt    time.Time
	lastFrame  time.Time
	frames     uint64

	toasts      toasts
	subs        []playback.SubscriptionID
	subscribed  bool
	presentErr  bool
	screenshot  atomic.Bool
	lastCapture string
}

// New creates a host. display may be nil to skip presenting.
func New(reg *plugin.Registry, env *plugin.Env, in InputSource, surface Surface, display render.Display, log *zap.Logger, opts Options) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	if env == nil {
		env = &plugin.Env{}
	}
	if env.Registry == nil {
		env.Registry = reg
	}
	if env.Measurer == nil && surface != nil {
		env.Measurer = surface
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}
	if opts.Menu == "" {
		opts.Menu = DefaultMenu
	}
	if display == nil {
		display = render.Discard{}
	}
	return &Host{
		reg:     reg,
		env:     env,
		input:   in,
		surface: surface,
		display: display,
		log:     log.Named("host"),
		opts:    opts,
	}
}

// Active returns the name of the running plugin.
func (h *Host) Active() string { return h.activeName }

// Frames returns the number of frames ticked.
func (h *Host) Frames() uint64 { return h.frames }

// RequestScreenshot saves the next presented frame.
func (h *Host) RequestScreenshot() { h.screenshot.Store(true) }

// LastScreenshot returns the path of the last saved screenshot.
func (h *Host) LastScreenshot() string { return h.lastCapture }

// Run ticks at the frame interval until ctx is done, then shuts the
// active plugin down.
func (h *Host) Run(ctx context.Context) error {
	h.log.Info("frame loop started",
		zap.Duration("interval", h.opts.FrameInterval),
		zap.Strings("plugins", h.reg.Names()))

	ticker := time.NewTicker(h.opts.FrameInterval)
	defer ticker.Stop()
	defer h.Shutdown()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("frame loop stopped", zap.Uint64("frames", h.frames))
			return nil
		case now := <-ticker.C:
			h.Tick(ctx, now)
		}
	}
}

// Tick runs one frame.
func (h *Host) Tick(ctx context.Context, now time.Time) {
	dt := h.delta(now)
	h.frames++

	in := &input.State{}
	if h.input != nil {
		in = h.input.Update(now)
	}
	if h.env.Config != nil {
		h.env.Config.PollChanges()
	}
	if h.env.Bus != nil {
		h.subscribeNotifications()
		h.env.Bus.Poll(ctx)
	}

	if h.active == nil && !now.Before(h.retryAt) {
		h.start(now)
	}
	if h.active != nil {
		h.update(ctx, in, dt, now)
	}

	if h.env.Background != nil {
		h.env.Background.Update(dt)
	}
	if h.surface != nil {
		h.draw(now)
		h.present(now)
	}
}

func (h *Host) delta(now time.Time) float64 {
	defer func() { h.lastFrame = now }()
	if h.lastFrame.IsZero() {
		return h.opts.FrameInterval.Seconds()
	}
	dt := now.Sub(h.lastFrame).Seconds()
	return min(max(dt, 0), maxFrameDelta)
}

func (h *Host) start(now time.Time) {
	name := h.opts.StartupPlugin
	if name == "" && h.env.Config != nil {
		name = h.env.Config.Global().StartupPlugin
	}
	h.opts.StartupPlugin = ""
	if name == "" {
		name = h.opts.Menu
	}
	h.switchTo(name, now)
}

func (h *Host) update(ctx context.Context, in *input.State, dt float64, now time.Time) {
	if in.BackPressed && !h.active.HandlesBackButton() {
		h.log.Debug("back closes plugin", zap.String("plugin", h.activeName))
		h.closeActive()
		h.next(now)
		return
	}

	err := h.guard(func() { h.active.Update(ctx, in, dt) })
	if err != nil {
		h.fail(errmsg.OpPluginRun, err, now)
		return
	}
	if h.active.WantsClose() {
		h.closeActive()
		h.next(now)
	}
}

// next opens the requested plugin, or the menu.
func (h *Host) next(now time.Time) {
	name := h.opts.Menu
	if h.env.Nav != nil {
		if req, ok := h.env.Nav.Take(); ok {
			name = req
		}
	}
	h.switchTo(name, now)
}

func (h *Host) switchTo(name string, now time.Time) {
	if h.active != nil {
		h.closeActive()
	}
	p, err := h.reg.New(name)
	if err == nil {
		w, ht := h.size()
		var initErr error
		err = h.guard(func() { initErr = p.Init(h.env, w, ht) })
		if err == nil {
			err = initErr
		}
		if err == nil {
			h.active, h.activeName = p, p.Info().Name
			h.log.Info("plugin opened", zap.String("plugin", h.activeName))
			return
		}
		h.guard(p.Shutdown) //nolint:errcheck // already failing
	}

	msg := errmsg.FormatWith(errmsg.OpPluginInit, name, err)
	h.log.Error(msg)
	h.toasts.push(msg, "", true)
	if name != h.opts.Menu {
		h.switchTo(h.opts.Menu, now)
		return
	}
	h.retryAt = now.Add(retryDelay)
}

func (h *Host) fail(op errmsg.Op, err error, now time.Time) {
	name := h.activeName
	msg := errmsg.FormatWith(op, name, err)
	h.log.Error(msg)
	h.toasts.push(msg, "", true)
	h.closeActive()
	if h.env.Nav != nil {
		h.env.Nav.Clear()
	}
	if name == h.opts.Menu {
		h.retryAt = now.Add(retryDelay)
		return
	}
	h.switchTo(h.opts.Menu, now)
}

func (h *Host) closeActive() {
	if h.active == nil {
		return
	}
	if err := h.guard(h.active.Shutdown); err != nil {
		h.log.Error(errmsg.FormatWith(errmsg.OpPluginRun, h.activeName, err))
	}
	h.log.Info("plugin closed", zap.String("plugin", h.activeName))
	h.active, h.activeName = nil, ""
}

// Shutdown closes the active plugin.
func (h *Host) Shutdown() {
	h.closeActive()
	if h.env.Bus != nil {
		for _, id := range h.subs {
			h.env.Bus.Unsubscribe(id)
		}
	}
	h.subs = nil
	h.subscribed = false
}

func (h *Host) draw(now time.Time) {
	c := h.surface
	if h.env.Background != nil {
		h.env.Background.Draw(c)
	} else {
		c.Clear(toastBackground)
	}
	if h.active != nil {
		if err := h.guard(func() { h.active.Draw(c) }); err != nil {
			h.fail(errmsg.OpPluginRun, err, now)
		}
	}
	h.toasts.draw(c, now)
}

func (h *Host) present(now time.Time) {
	frame := h.surface.Image()
	if err := h.display.Present(frame); err != nil {
		if !h.presentErr {
			h.log.Warn("present frame", zap.Error(err))
		}
		h.presentErr = true
	} else {
		h.presentErr = false
	}

	if !h.screenshot.CompareAndSwap(true, false) {
		return
	}
	dir := h.opts.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("screenshot_%s.png", now.Format("20060102_150405")))
	if err := render.SavePNG(path, frame); err != nil {
		msg := errmsg.Format(errmsg.OpScreenshot, err)
		h.log.Warn(msg)
		h.toasts.push(msg, "", true)
		return
	}
	h.lastCapture = path
	h.log.Info("screenshot saved", zap.String("path", path))
	h.toasts.push("Screenshot saved", filepath.Base(path), false)
}

func (h *Host) size() (int, int) {
	if h.surface == nil {
		return input.ScreenWidth, input.ScreenHeight
	}
	return h.surface.Size()
}

// subscribeNotifications shows bus notifications and phone link changes
// as toasts.
func (h *Host) subscribeNotifications() {
	if h.subscribed {
		return
	}
	h.subscribed = true
	handlers := map[playback.EventType]playback.Handler{
		playback.EventNotification: func(e playback.Event) {
			h.toasts.push(e.Notification.Title, e.Notification.Body, false)
		},
		playback.EventConnectionChanged: func(e playback.Event) {
			if e.Initial {
				return
			}
			if e.Connected {
				h.toasts.push("Phone connected", e.DeviceName, false)
			} else {
				h.toasts.push("Phone disconnected", "", true)
			}
		},
	}
	for _, t := range []playback.EventType{playback.EventNotification, playback.EventConnectionChanged} {
		id, err := h.env.Bus.Subscribe(t, handlers[t])
		if err != nil {
			h.log.Warn("subscribe", zap.Stringer("event", t), zap.Error(err))
			continue
		}
		h.subs = append(h.subs, id)
	}
}

var errPanic = errors.New("plugin panicked")

// guard runs fn, turning a panic into an error so it never crosses a
// frame boundary.
func (h *Host) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("plugin panic",
				zap.String("plugin", h.activeName),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	fn()
	return nil
}
