// Package nowplaying shows the current track with its cover, progress
// and transport controls.
package nowplaying

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/albumart"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/ui"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

// Name is the registry name.
const Name = "Now Playing"

// LyricsPlugin is opened on a select hold.
const LyricsPlugin = "Lyrics"

const (
	energyPlaying = 1.0
	energyPaused  = 0.3

	volumeOverlay = 1500 * time.Millisecond
)

// Layout selects what the screen shows.
type Layout int

const (
	LayoutCover   Layout = iota // cover on the left, details on the right
	LayoutDetails               // details only, larger text
)

// Plugin config keys.
const (
	keyVolumeStep = "volume_step"
	keyLayout     = "layout"
	keyShowClock  = "show_clock"
)

var defaults = map[string]string{
	keyVolumeStep: "5",
	keyLayout:     "0",
	keyShowClock:  "true",
}

// NowPlaying is the main media screen.
type NowPlaying struct {
	plugin.Base
	env   *plugin.Env
	log   *zap.Logger
	cfg   *config.PluginConfig
	theme styles.Canvas
	w, h  float64

	subs []playback.SubscriptionID

	state     media.State
	hasState  bool
	connected bool
	device    string

	// Position is interpolated between polls while playing.
	position   float64
	positionAt time.Time

	volumeUntil time.Time
	layout      Layout
	showClock   bool
	clock       string
	clockTick   media.Every

	art   *albumart.Loader
	fader *albumart.Fader
}

// New creates the plugin.
func New() plugin.Plugin {
	return &NowPlaying{}
}

func (p *NowPlaying) Info() plugin.Info {
	return plugin.Info{
		Name:        Name,
		Description: "Current track, cover and controls",
		Category:    plugin.CategoryMedia,
	}
}

func (p *NowPlaying) Init(env *plugin.Env, w, h int) error {
	p.env = env
	p.log = env.Logger("nowplaying")
	p.theme = styles.T().Canvas()
	p.w, p.h = float64(w), float64(h)
	p.clockTick = media.Every{Interval: time.Second}
	p.fader = albumart.NewFader()

	var req albumart.Requester
	if env.Media != nil {
		req = env.Media
	}
	p.art = albumart.NewLoader(env.Art, req, env.Log)

	cfg, err := env.OpenConfig("nowplaying", defaults)
	if err != nil {
		p.log.Warn(errmsg.Format(errmsg.OpConfigLoad, err))
	} else {
		p.cfg = cfg
		p.layout = Layout(cfg.Int(keyLayout, 0))
		p.showClock = cfg.Bool(keyShowClock, true)
	}

	if env.Bus != nil {
		for _, t := range []playback.EventType{
			playback.EventTrackChanged,
			playback.EventPlaystateChanged,
			playback.EventVolumeChanged,
			playback.EventPositionChanged,
			playback.EventAlbumArtChanged,
			playback.EventConnectionChanged,
		} {
			id, err := env.Bus.Subscribe(t, p.onEvent)
			if err != nil {
				return err
			}
			p.subs = append(p.subs, id)
		}
	}
	return nil
}

func (p *NowPlaying) onEvent(e playback.Event) {
	now := p.env.Now()
	if e.Type == playback.EventConnectionChanged {
		p.connected = e.Connected
		p.device = e.DeviceName
		return
	}
	p.state = e.State
	p.hasState = true
	switch e.Type {
	case playback.EventTrackChanged, playback.EventPositionChanged:
		p.syncPosition(now)
	case playback.EventPlaystateChanged:
		p.syncPosition(now)
		if p.env.Background != nil {
			p.env.Background.SetEnergy(energyFor(e.State.IsPlaying))
		}
	case playback.EventVolumeChanged:
		if !e.Initial {
			p.volumeUntil = now.Add(volumeOverlay)
		}
	}
}

func energyFor(playing bool) float64 {
	if playing {
		return energyPlaying
	}
	return energyPaused
}

func (p *NowPlaying) syncPosition(now time.Time) {
	p.position = float64(p.state.Position)
	p.positionAt = now
}

// Position returns the interpolated position in seconds.
func (p *NowPlaying) Position() float64 {
	pos := p.position
	if p.state.IsPlaying && !p.positionAt.IsZero() {
		pos += p.env.Now().Sub(p.positionAt).Seconds()
	}
	if d := float64(p.state.Duration); d > 0 {
		pos = min(pos, d)
	}
	return max(pos, 0)
}

// State returns the last observed playback state.
func (p *NowPlaying) State() media.State { return p.state }

// Layout returns the current layout.
func (p *NowPlaying) Layout() Layout { return p.layout }

func (p *NowPlaying) Update(ctx context.Context, in *input.State, dt float64) {
	now := p.env.Now()
	p.updateArt(ctx, now)
	p.fader.Update(dt)
	if p.showClock && p.clockTick.Due(now) && p.env.Media != nil {
		if wc, ok := p.env.Media.PhoneTime(ctx); ok {
			p.clock = formatClock(wc)
		}
	}

	svc := p.env.Media
	if svc == nil {
		return
	}

	if in.ScrollDelta != 0 {
		step := 5
		if p.cfg != nil {
			step = p.cfg.Int(keyVolumeStep, 5)
		}
		if svc.AdjustVolume(ctx, in.ScrollDelta*step) {
			p.state.Volume = svc.CachedVolume()
			p.volumeUntil = now.Add(volumeOverlay)
		}
	}

	switch {
	case in.SelectPressed, in.PlayPausePressed:
		if svc.TogglePlay(ctx) {
			p.state.IsPlaying = !p.state.IsPlaying
			p.syncPosition(now)
		}
	case in.SelectHold:
		p.openLyrics(ctx)
	case in.SwipeLeft:
		svc.Next(ctx)
	case in.SwipeRight:
		svc.Previous(ctx)
	case in.DoubleTap:
		if svc.SetLiked(ctx, !p.state.IsLiked, p.state.SpotifyTrackID) {
			p.state.IsLiked = !p.state.IsLiked
		}
	case in.Tap:
		p.handleTap(ctx, in.TapPos)
	}

	if in.Button(keymap.ButtonStyleCycle).Pressed && p.env.Background != nil {
		p.env.Background.Cycle()
	}
	if in.Button(keymap.ButtonDisplayMode).Pressed {
		p.toggleLayout()
	}
}

func (p *NowPlaying) openLyrics(ctx context.Context) {
	if p.state.HasTrack() {
		p.env.Media.RequestLyrics(ctx, p.state.Artist, p.state.Track)
	}
	p.env.Navigate(LyricsPlugin)
	p.Close()
}

func (p *NowPlaying) toggleLayout() {
	p.layout = (p.layout + 1) % 2
	if p.cfg != nil {
		if err := p.cfg.SetInt(keyLayout, int(p.layout)); err != nil {
			p.log.Warn(errmsg.Format(errmsg.OpPluginStore, err))
		}
	}
}

func (p *NowPlaying) handleTap(ctx context.Context, at input.Point) {
	svc := p.env.Media
	bar := p.progressRect()
	// Generous hit area around the thin bar.
	hit := ui.Rect{X: bar.X, Y: bar.Y - 20, W: bar.W, H: bar.H + 40}
	if hit.Contains(at) && p.state.Duration > 0 {
		frac := (float64(at.X) - bar.X) / bar.W
		target := int(frac * float64(p.state.Duration))
		if svc.SeekTo(ctx, target) {
			p.state.Position = target
			p.syncPosition(p.env.Now())
		}
		return
	}
	for _, b := range p.buttons() {
		if b.rect.Contains(at) {
			switch b.id {
			case buttonShuffle:
				svc.ToggleShuffle(ctx)
			case buttonRepeat:
				svc.CycleRepeat(ctx)
			case buttonLike:
				if svc.SetLiked(ctx, !p.state.IsLiked, p.state.SpotifyTrackID) {
					p.state.IsLiked = !p.state.IsLiked
				}
			}
			return
		}
	}
}

func (p *NowPlaying) updateArt(ctx context.Context, now time.Time) {
	img, changed := p.art.Update(ctx, p.state, now)
	if !changed {
		return
	}
	p.fader.Set(img)
	bg := p.env.Background
	if bg == nil {
		return
	}
	if img == nil {
		bg.ClearColors()
		return
	}
	primary, accent := Dominant(img)
	bg.SetColors(primary, accent)
	bg.SetBlurSource(img)
}

func (p *NowPlaying) Shutdown() {
	if p.env != nil && p.env.Bus != nil {
		for _, id := range p.subs {
			p.env.Bus.Unsubscribe(id)
		}
	}
	p.subs = nil
	if p.fader != nil {
		p.fader.Clear()
	}
	if p.cfg != nil {
		if err := p.cfg.Close(); err != nil {
			p.log.Warn(errmsg.Format(errmsg.OpPluginStore, err))
		}
	}
}
