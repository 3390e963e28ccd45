// Package queueview lists the phone's upcoming tracks and skips ahead.
package queueview

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/icons"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
	"github.com/llehouerou/mediadash/internal/ui/list"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

// Name is the registry name.
const Name = "Queue"

const nowPlayingHeight = 56.0

// View shows the queue and refreshes it periodically.
type View struct {
	plugin.Base
	env   *plugin.Env
	log   *zap.Logger
	theme styles.Canvas
	w, h  float64

	tracks  list.Model[media.QueueTrack]
	queue   media.Queue
	loaded  bool
	refresh media.Every
	req     media.Pending[media.Queue]
	sub     playback.SubscriptionID
	subbed  bool
	errLine string
}

// New creates the plugin.
func New() plugin.Plugin {
	return &View{}
}

func (v *View) Info() plugin.Info {
	return plugin.Info{
		Name:        Name,
		Description: "Upcoming tracks, select to skip ahead",
		Category:    plugin.CategoryMedia,
	}
}

func (v *View) Init(env *plugin.Env, w, h int) error {
	v.env = env
	v.log = env.Logger("queue")
	v.theme = styles.T().Canvas()
	v.w, v.h = float64(w), float64(h)
	v.refresh = media.Every{Interval: media.QueueRefreshInterval}

	_, body := ui.Rect{X: ui.Margin, W: v.w - 2*ui.Margin, H: v.h}.SplitTop(ui.HeaderHeight + nowPlayingHeight)
	v.tracks = list.New[media.QueueTrack](ui.RowHeight)
	v.tracks.SetBounds(body)

	svc := env.Media
	if svc == nil {
		return nil
	}
	v.req = media.Pending[media.Queue]{
		Request: svc.RequestQueue,
		Fetch:   svc.Queue,
		// The phone stamps every publish; an unchanged stamp is the old queue.
		Accept: func(q media.Queue) bool {
			return !v.loaded || q.Timestamp != v.queue.Timestamp
		},
		Interval: media.CatalogPollInterval,
		Timeout:  media.CatalogTimeout,
	}
	if q, ok := svc.Queue(context.Background()); ok {
		v.setQueue(q)
	}

	if env.Bus != nil {
		id, err := env.Bus.Subscribe(playback.EventTrackChanged, v.onTrackChanged)
		if err != nil {
			return err
		}
		v.sub, v.subbed = id, true
	}
	return nil
}

func (v *View) onTrackChanged(e playback.Event) {
	if !e.Initial {
		v.refresh.Reset()
	}
}

func (v *View) setQueue(q media.Queue) {
	v.queue = q
	v.loaded = true
	v.tracks.SetItems(q.Tracks)
}

// Queue returns the queue on screen.
func (v *View) Queue() media.Queue { return v.queue }

func (v *View) Update(ctx context.Context, in *input.State, _ float64) {
	svc := v.env.Media
	if svc == nil {
		return
	}
	now := v.env.Now()
	if v.refresh.Due(now) {
		v.req.Start(ctx, now)
	}
	if v.req.Update(ctx, now) {
		switch v.req.State() {
		case media.PendingReady:
			v.setQueue(v.req.Value())
			v.errLine = ""
		case media.PendingTimedOut:
			if !v.loaded {
				v.errLine = errmsg.Format(errmsg.OpQueueLoad, fmt.Errorf("phone did not respond"))
			}
		}
	}

	res := v.tracks.Update(in)
	switch res.Action {
	case list.ActionEnter, list.ActionClick:
		v.shift(ctx, res.Index)
	case list.ActionHold:
		if t, ok := v.tracks.Selected(); ok && t.URI != "" {
			svc.PlayURI(ctx, t.URI)
		}
	}
}

// shift skips to index and drops the skipped entries locally until the
// next publish.
func (v *View) shift(ctx context.Context, index int) {
	if index < 0 || index >= len(v.queue.Tracks) {
		return
	}
	if !v.env.Media.ShiftQueue(ctx, index) {
		v.errLine = errmsg.Format(errmsg.OpQueueShift, fmt.Errorf("command not sent"))
		return
	}
	v.log.Debug("queue shift", zap.Int("index", index))
	cur := v.queue.Tracks[index]
	v.queue.CurrentlyPlaying = &cur
	v.queue.Tracks = v.queue.Tracks[index+1:]
	v.tracks.SetItems(v.queue.Tracks)
	v.tracks.Select(0)
	v.refresh.Reset()
}

func (v *View) Draw(c render.Canvas) {
	c.Text("Up next", ui.Margin, ui.HeaderHeight/2, ui.TitleSize, v.theme.Text, render.AlignLeft)
	if v.queue.Service != "" {
		c.Text(v.queue.Service, v.w-ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, v.theme.Subtle, render.AlignRight)
	}

	if cp := v.queue.CurrentlyPlaying; cp != nil {
		y := ui.HeaderHeight + nowPlayingHeight/2
		line := render.Truncate(c, icons.FormatPlaying(cp.Title+" · "+cp.Artist), ui.BodySize, v.w-2*ui.Margin)
		c.Text(line, ui.Margin, y, ui.BodySize, v.theme.Primary, render.AlignLeft)
	}

	switch {
	case v.errLine != "":
		c.Text(v.errLine, v.w/2, v.h/2, ui.BodySize, v.theme.Error, render.AlignCenter)
	case !v.loaded:
		c.Text("Loading queue…", v.w/2, v.h/2, ui.BodySize, v.theme.Muted, render.AlignCenter)
	case v.tracks.Len() == 0:
		c.Text("Queue is empty", v.w/2, v.h/2, ui.BodySize, v.theme.Muted, render.AlignCenter)
	default:
		v.tracks.Draw(c, render.WithAlpha(v.theme.Cursor, 0.85), v.drawRow)
	}
}

func (v *View) drawRow(c render.Canvas, t media.QueueTrack, i int, r ui.Rect, selected bool) {
	col := v.theme.Muted
	if selected {
		col = v.theme.Text
	}
	c.Text(fmt.Sprintf("%d", i+1), r.X+20, r.Y+r.H/2, ui.CaptionSize, v.theme.Subtle, render.AlignLeft)
	c.Text(render.Truncate(c, t.Title, ui.BodySize, r.W-200), r.X+64, r.Y+r.H*0.38, ui.BodySize, col, render.AlignLeft)
	c.Text(render.Truncate(c, t.Artist, ui.CaptionSize, r.W-200), r.X+64, r.Y+r.H*0.72, ui.CaptionSize, v.theme.Subtle, render.AlignLeft)
	if t.Duration > 0 {
		d := t.Duration.Round(time.Second)
		c.Text(fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60), r.X+r.W-20, r.Y+r.H/2, ui.CaptionSize, v.theme.Subtle, render.AlignRight)
	}
}

func (v *View) Shutdown() {
	if v.subbed && v.env.Bus != nil {
		v.env.Bus.Unsubscribe(v.sub)
		v.subbed = false
	}
}
