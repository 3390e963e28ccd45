// Package podcasts browses subscribed podcasts and plays episodes.
package podcasts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/ui"
	"github.com/llehouerou/mediadash/internal/ui/list"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

// Name is the registry name.
const Name = "Podcasts"

// PlayerPlugin is opened after an episode starts.
const PlayerPlugin = "Now Playing"

// recentID marks the synthetic "Recent episodes" row.
const recentID = "\x00recent"

var errNoResponse = errors.New("phone did not respond")

type view int

const (
	viewChannels view = iota
	viewEpisodes
	viewRecent
)

// Podcasts is a three-level browser: channels, then a channel's episodes
// or the recent episodes across channels.
type Podcasts struct {
	plugin.Base
	env   *plugin.Env
	log   *zap.Logger
	theme styles.Canvas
	w, h  float64
	view  view

	channels list.Model[media.PodcastChannel]
	episodes list.Model[media.Episode]
	recent   list.Model[media.RecentEpisode]

	channelReq media.Pending[[]media.PodcastChannel]
	pageReq    media.Pending[media.EpisodePage]
	recentReq  media.Pending[[]media.RecentEpisode]

	podcast    media.PodcastChannel
	pageOffset int
	hasMore    bool
	total      int
	errLine    string
}

// New creates the plugin.
func New() plugin.Plugin {
	return &Podcasts{}
}

func (p *Podcasts) Info() plugin.Info {
	return plugin.Info{
		Name:        Name,
		Description: "Subscribed podcasts and recent episodes",
		Category:    plugin.CategoryMedia,
	}
}

func (p *Podcasts) Init(env *plugin.Env, w, h int) error {
	p.env = env
	p.log = env.Logger("podcasts")
	p.theme = styles.T().Canvas()
	p.w, p.h = float64(w), float64(h)

	_, body := ui.Rect{X: ui.Margin, W: p.w - 2*ui.Margin, H: p.h}.SplitTop(ui.HeaderHeight)
	p.channels = list.New[media.PodcastChannel](ui.RowHeight)
	p.episodes = list.New[media.Episode](ui.RowHeight)
	p.recent = list.New[media.RecentEpisode](ui.RowHeight)
	p.channels.SetBounds(body)
	p.episodes.SetBounds(body)
	p.recent.SetBounds(body)

	svc := env.Media
	if svc == nil {
		return nil
	}
	p.channelReq = media.Pending[[]media.PodcastChannel]{
		Request:  svc.RequestPodcastList,
		Fetch:    svc.PodcastList,
		Interval: media.CatalogPollInterval,
		Timeout:  media.CatalogTimeout,
	}
	p.recentReq = media.Pending[[]media.RecentEpisode]{
		Request: func(ctx context.Context) bool {
			return svc.RequestRecentEpisodes(ctx, media.DefaultRecentLimit)
		},
		Fetch:    svc.RecentEpisodes,
		Interval: media.CatalogPollInterval,
		Timeout:  media.CatalogTimeout,
	}
	p.pageReq = media.Pending[media.EpisodePage]{
		Request: func(ctx context.Context) bool {
			return svc.RequestEpisodes(ctx, p.podcast.ID, p.pageOffset, media.DefaultEpisodePageSize)
		},
		Fetch: func(ctx context.Context) (media.EpisodePage, bool) {
			return svc.Episodes(ctx, p.podcast.ID)
		},
		// A page left over from an earlier request has another offset.
		Accept: func(pg media.EpisodePage) bool {
			return pg.PodcastID == p.podcast.ID && pg.Offset == p.pageOffset
		},
		Interval: media.CatalogPollInterval,
		Timeout:  media.CatalogTimeout,
	}

	// Show what the phone published last while the refresh is in flight.
	ctx := context.Background()
	if cached, ok := svc.PodcastList(ctx); ok {
		p.setChannels(cached)
	}
	p.channelReq.Start(ctx, env.Now())
	return nil
}

func (p *Podcasts) setChannels(chs []media.PodcastChannel) {
	rows := make([]media.PodcastChannel, 0, len(chs)+1)
	rows = append(rows, media.PodcastChannel{ID: recentID, Title: "Recent episodes"})
	rows = append(rows, chs...)
	p.channels.SetItems(rows)
}

// HandlesBackButton keeps Back inside the plugin below the channel list.
func (p *Podcasts) HandlesBackButton() bool { return p.view != viewChannels }

func (p *Podcasts) Update(ctx context.Context, in *input.State, _ float64) {
	now := p.env.Now()
	p.poll(ctx, now)

	if in.BackPressed && p.view != viewChannels {
		p.view = viewChannels
		p.pageReq.Reset()
		p.recentReq.Reset()
		p.errLine = ""
		return
	}

	switch p.view {
	case viewChannels:
		res := p.channels.Update(in)
		if res.Action == list.ActionEnter || res.Action == list.ActionClick {
			if ch, ok := p.channels.Selected(); ok {
				p.open(ctx, ch, now)
			}
		}
	case viewEpisodes:
		res := p.episodes.Update(in)
		switch res.Action {
		case list.ActionEnter, list.ActionClick:
			if ep, ok := p.episodes.Selected(); ok {
				p.play(ctx, ep)
			}
		}
		p.maybeLoadMore(ctx, now)
	case viewRecent:
		res := p.recent.Update(in)
		switch res.Action {
		case list.ActionEnter, list.ActionClick:
			if ep, ok := p.recent.Selected(); ok {
				p.play(ctx, ep.Episode)
			}
		}
	}
}

func (p *Podcasts) poll(ctx context.Context, now time.Time) {
	if p.channelReq.Update(ctx, now) {
		if p.channelReq.State() == media.PendingReady {
			p.setChannels(p.channelReq.Value())
		} else if p.channels.Len() == 0 {
			p.errLine = errmsg.Format(errmsg.OpPodcastList, errNoResponse)
		}
	}
	if p.recentReq.Update(ctx, now) {
		if p.recentReq.State() == media.PendingReady {
			p.recent.SetItems(p.recentReq.Value())
		} else {
			p.errLine = errmsg.Format(errmsg.OpPodcastEpisodes, errNoResponse)
		}
	}
	if p.pageReq.Update(ctx, now) {
		if p.pageReq.State() == media.PendingReady {
			pg := p.pageReq.Value()
			p.episodes.SetItems(media.MergeEpisodes(p.episodes.Items(), pg.Episodes))
			p.pageOffset = pg.End()
			p.hasMore = pg.HasMore
			p.total = pg.TotalEpisodes
			if pg.PodcastTitle != "" {
				p.podcast.Title = pg.PodcastTitle
			}
		} else {
			p.errLine = errmsg.FormatWith(errmsg.OpPodcastEpisodes, p.podcast.Title, errNoResponse)
		}
	}
}

func (p *Podcasts) open(ctx context.Context, ch media.PodcastChannel, now time.Time) {
	p.errLine = ""
	if ch.ID == recentID {
		p.view = viewRecent
		p.recent.SetItems(nil)
		p.recentReq.Start(ctx, now)
		return
	}
	p.view = viewEpisodes
	p.podcast = ch
	p.pageOffset = 0
	p.hasMore = false
	p.total = ch.EpisodeCount
	p.episodes.SetItems(nil)
	p.pageReq.Start(ctx, now)
}

// maybeLoadMore requests the next page once the last row is on screen.
func (p *Podcasts) maybeLoadMore(ctx context.Context, now time.Time) {
	if !p.hasMore || p.pageReq.Loading() || p.episodes.Len() == 0 || !p.episodes.AtEnd() {
		return
	}
	p.pageReq.Start(ctx, now)
}

func (p *Podcasts) play(ctx context.Context, ep media.Episode) {
	if p.env.Media == nil || ep.EpisodeHash == "" {
		return
	}
	if !p.env.Media.PlayEpisode(ctx, ep.EpisodeHash) {
		p.errLine = errmsg.FormatWith(errmsg.OpPodcastPlay, ep.Title, errNoResponse)
		return
	}
	p.log.Info("play episode", zap.String("episode", ep.EpisodeHash))
	p.env.Navigate(PlayerPlugin)
	p.Close()
}
