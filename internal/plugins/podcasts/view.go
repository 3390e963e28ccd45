package podcasts

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
)

func (p *Podcasts) Draw(c render.Canvas) {
	title := "Podcasts"
	switch p.view {
	case viewEpisodes:
		title = p.podcast.Title
	case viewRecent:
		title = "Recent episodes"
	}
	c.Text(render.Truncate(c, title, ui.TitleSize, p.w*0.65), ui.Margin, ui.HeaderHeight/2, ui.TitleSize, p.theme.Text, render.AlignLeft)

	highlight := render.WithAlpha(p.theme.Cursor, 0.85)
	switch p.view {
	case viewChannels:
		if p.channelReq.Loading() {
			p.status(c, "Refreshing…", false)
		}
		p.channels.Draw(c, highlight, p.drawChannel)
	case viewEpisodes:
		if p.total > 0 {
			counter := fmt.Sprintf("%d / %d", p.episodes.Len(), p.total)
			c.Text(counter, p.w-ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, p.theme.Subtle, render.AlignRight)
		}
		p.episodes.Draw(c, highlight, p.drawEpisode)
		if p.pageReq.Loading() && p.episodes.Len() == 0 {
			p.empty(c, "Loading episodes…")
		} else if p.episodes.Len() == 0 && p.errLine == "" {
			p.empty(c, "No episodes")
		}
	case viewRecent:
		p.recent.Draw(c, highlight, p.drawRecent)
		if p.recentReq.Loading() && p.recent.Len() == 0 {
			p.empty(c, "Loading episodes…")
		}
	}
	if p.errLine != "" {
		p.status(c, p.errLine, true)
	}
}

func (p *Podcasts) empty(c render.Canvas, msg string) {
	c.Text(msg, p.w/2, p.h/2, ui.BodySize, p.theme.Muted, render.AlignCenter)
}

// status is drawn at the right of the header.
func (p *Podcasts) status(c render.Canvas, msg string, isErr bool) {
	col := p.theme.Subtle
	if isErr {
		col = p.theme.Error
		msg = render.Truncate(c, msg, ui.CaptionSize, p.w-2*ui.Margin)
		c.Text(msg, p.w/2, p.h-ui.Margin, ui.CaptionSize, col, render.AlignCenter)
		return
	}
	c.Text(msg, p.w-ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, col, render.AlignRight)
}

func (p *Podcasts) drawChannel(c render.Canvas, ch media.PodcastChannel, _ int, r ui.Rect, selected bool) {
	col := p.theme.Muted
	if selected {
		col = p.theme.Text
	}
	if ch.ID == recentID {
		c.Text(ch.Title, r.X+20, r.Y+r.H/2, ui.BodySize, p.theme.Primary, render.AlignLeft)
		return
	}
	c.Text(render.Truncate(c, ch.Title, ui.BodySize, r.W-180), r.X+20, r.Y+r.H*0.38, ui.BodySize, col, render.AlignLeft)
	c.Text(render.Truncate(c, ch.Author, ui.CaptionSize, r.W-180), r.X+20, r.Y+r.H*0.72, ui.CaptionSize, p.theme.Subtle, render.AlignLeft)
	if ch.EpisodeCount > 0 {
		c.Text(humanize.Comma(int64(ch.EpisodeCount))+" eps", r.X+r.W-20, r.Y+r.H/2, ui.CaptionSize, p.theme.Subtle, render.AlignRight)
	}
}

func (p *Podcasts) drawEpisode(c render.Canvas, ep media.Episode, _ int, r ui.Rect, selected bool) {
	p.episodeRow(c, ep, "", r, selected)
}

func (p *Podcasts) drawRecent(c render.Canvas, ep media.RecentEpisode, _ int, r ui.Rect, selected bool) {
	p.episodeRow(c, ep.Episode, ep.PodcastTitle, r, selected)
}

func (p *Podcasts) episodeRow(c render.Canvas, ep media.Episode, show string, r ui.Rect, selected bool) {
	col := p.theme.Muted
	if selected {
		col = p.theme.Text
	}
	c.Text(render.Truncate(c, ep.Title, ui.BodySize, r.W-200), r.X+20, r.Y+r.H*0.38, ui.BodySize, col, render.AlignLeft)

	sub := ep.Age(p.env.Now())
	if show != "" {
		sub = show + " · " + sub
	}
	c.Text(render.Truncate(c, sub, ui.CaptionSize, r.W-200), r.X+20, r.Y+r.H*0.72, ui.CaptionSize, p.theme.Subtle, render.AlignLeft)
	if ep.Duration > 0 {
		c.Text(formatDuration(ep), r.X+r.W-20, r.Y+r.H/2, ui.CaptionSize, p.theme.Subtle, render.AlignRight)
	}
}

func formatDuration(ep media.Episode) string {
	m := int(ep.Duration.Minutes())
	if m >= 60 {
		return fmt.Sprintf("%dh %02dm", m/60, m%60)
	}
	return fmt.Sprintf("%d min", max(m, 1))
}
