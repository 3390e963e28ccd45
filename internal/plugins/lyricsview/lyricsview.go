// Package lyricsview shows synced lyrics for the current track.
package lyricsview

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
	uilyrics "github.com/llehouerou/mediadash/internal/ui/lyrics"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

// Name is the registry name.
const Name = "Lyrics"

const (
	keyFontStep   = "font_step"
	keyVisibility = "visibility"
	keyStyle      = "style"
)

var defaults = map[string]string{
	keyFontStep:   "1",
	keyVisibility: "0",
	keyStyle:      "0",
}

// View wraps the lyrics engine with the track header and settings.
type View struct {
	plugin.Base
	env   *plugin.Env
	log   *zap.Logger
	cfg   *config.PluginConfig
	theme styles.Canvas
	w, h  float64

	engine *uilyrics.Engine
	subs   []playback.SubscriptionID

	state      media.State
	positionAt time.Time
	enabled    bool
	retry      media.Every
}

// New creates the plugin.
func New() plugin.Plugin {
	return &View{}
}

func (v *View) Info() plugin.Info {
	return plugin.Info{
		Name:        Name,
		Description: "Synced lyrics, drag to seek",
		Category:    plugin.CategoryMedia,
	}
}

func (v *View) Init(env *plugin.Env, w, h int) error {
	v.env = env
	v.log = env.Logger("lyrics")
	v.theme = styles.T().Canvas()
	v.w, v.h = float64(w), float64(h)
	v.retry = media.Every{Interval: media.LyricsRetryInterval}

	var seeker uilyrics.Seeker
	if env.Media != nil {
		seeker = env.Media
	}
	view := ui.Rect{X: 0, Y: ui.HeaderHeight, W: v.w, H: v.h - ui.HeaderHeight}
	v.engine = uilyrics.New(seeker, env.TextMeasurer(), uilyrics.WithViewport(view))
	v.engine.SetColors(uilyrics.Colors{Text: v.theme.Text, Current: v.theme.Primary, Status: v.theme.Muted})

	cfg, err := env.OpenConfig("lyrics", defaults)
	if err != nil {
		v.log.Warn(errmsg.Format(errmsg.OpConfigLoad, err))
	} else {
		v.cfg = cfg
		v.engine.SetFontStep(cfg.Int(keyFontStep, 1))
		v.engine.SetVisibility(uilyrics.VisibilityMode(cfg.Int(keyVisibility, 0)))
		v.engine.SetStyle(uilyrics.DisplayStyle(cfg.Int(keyStyle, 0)))
	}

	v.enabled = true
	if env.Media != nil {
		ctx := context.Background()
		v.enabled = env.Media.LyricsEnabled(ctx)
		if l, ok := env.Media.GetLyrics(ctx); ok {
			v.engine.SetLyrics(l)
		}
	}

	if env.Bus != nil {
		for _, t := range []playback.EventType{
			playback.EventTrackChanged,
			playback.EventPlaystateChanged,
			playback.EventPositionChanged,
		} {
			id, err := env.Bus.Subscribe(t, v.onEvent)
			if err != nil {
				return err
			}
			v.subs = append(v.subs, id)
		}
	}
	return nil
}

func (v *View) onEvent(e playback.Event) {
	v.state = e.State
	v.positionAt = v.env.Now()
	if e.Type != playback.EventTrackChanged || e.Initial {
		return
	}
	v.engine.TrackChanged()
	v.retry.Reset()
	if v.enabled && v.env.Media != nil && e.State.HasTrack() {
		v.env.Media.RequestLyrics(context.Background(), e.State.Artist, e.State.Track)
	}
}

// Engine exposes the scroll engine.
func (v *View) Engine() *uilyrics.Engine { return v.engine }

// Enabled reports whether the phone fetches lyrics.
func (v *View) Enabled() bool { return v.enabled }

// awaiting reports whether lyrics for the current track have not arrived.
func (v *View) awaiting() bool {
	return v.enabled && v.engine.State() != uilyrics.StateLoaded
}

func (v *View) position(now time.Time) time.Duration {
	pos := time.Duration(v.state.Position) * time.Second
	if v.state.IsPlaying && !v.positionAt.IsZero() {
		pos += now.Sub(v.positionAt)
	}
	return max(pos, 0)
}

func (v *View) Update(ctx context.Context, in *input.State, dt float64) {
	now := v.env.Now()
	svc := v.env.Media

	if svc != nil && v.awaiting() && v.retry.Due(now) {
		if l, ok := svc.GetLyrics(ctx); ok && l.Hash != v.engine.Hash() {
			v.engine.SetLyrics(l)
		}
	}

	switch {
	case in.SelectHold && svc != nil:
		if svc.SetLyricsEnabled(ctx, !v.enabled) {
			v.enabled = !v.enabled
			v.retry.Reset()
		}
	case in.SelectPressed, in.PlayPausePressed:
		if svc != nil {
			svc.TogglePlay(ctx)
		}
	}
	if in.ScrollDelta != 0 {
		v.engine.SetFontStep(v.engine.FontStep() + in.ScrollDelta)
		v.save(keyFontStep, v.engine.FontStep())
	}
	if in.Button(keymap.ButtonDisplayMode).Pressed {
		v.engine.SetVisibility(v.engine.Visibility().Next())
		v.save(keyVisibility, int(v.engine.Visibility()))
	}
	if in.Button(keymap.ButtonStyleCycle).Pressed {
		v.engine.SetStyle(v.engine.Style().Next())
		v.save(keyStyle, int(v.engine.Style()))
	}

	v.engine.SetPosition(v.position(now), time.Duration(v.state.Duration)*time.Second)
	v.engine.Update(ctx, in, dt, now)
}

func (v *View) save(key string, value int) {
	if v.cfg == nil {
		return
	}
	if err := v.cfg.SetInt(key, value); err != nil {
		v.log.Warn(errmsg.Format(errmsg.OpPluginStore, err))
	}
}

func (v *View) Draw(c render.Canvas) {
	if v.state.HasTrack() {
		title := render.Truncate(c, v.state.Track, ui.BodySize, v.w/2)
		c.Text(title, ui.Margin, ui.HeaderHeight/2-10, ui.BodySize, v.theme.Text, render.AlignLeft)
		artist := render.Truncate(c, v.state.Artist, ui.CaptionSize, v.w/2)
		c.Text(artist, ui.Margin, ui.HeaderHeight/2+16, ui.CaptionSize, v.theme.Muted, render.AlignLeft)
	}
	c.Text(v.engine.Visibility().String(), v.w-ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, v.theme.Subtle, render.AlignRight)

	if !v.enabled {
		c.Text(uilyrics.MsgDisabled, v.w/2, v.h/2, uilyrics.BaseFontSize, v.theme.Muted, render.AlignCenter)
		c.Text("Hold Select to turn them on", v.w/2, v.h/2+uilyrics.BaseFontSize*1.5, ui.CaptionSize, v.theme.Subtle, render.AlignCenter)
		return
	}
	v.engine.Draw(c)
}

func (v *View) Shutdown() {
	if v.env != nil && v.env.Bus != nil {
		for _, id := range v.subs {
			v.env.Bus.Unsubscribe(id)
		}
	}
	v.subs = nil
	if v.cfg != nil {
		if err := v.cfg.Close(); err != nil {
			v.log.Warn(errmsg.Format(errmsg.OpPluginStore, err))
		}
	}
}
