package nowplaying

import (
	"fmt"
	"time"

	"github.com/llehouerou/mediadash/internal/icons"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
)

type buttonID int

const (
	buttonShuffle buttonID = iota
	buttonLike
	buttonRepeat
)

type button struct {
	id   buttonID
	rect ui.Rect
}

const (
	coverSize  = 300.0
	buttonSize = 56.0
	progressH  = 6.0
	buttonGap  = 24.0
	volumeBarW = 24.0
	volumeBarH = 220.0
)

func (p *NowPlaying) coverRect() ui.Rect {
	return ui.Rect{X: ui.Margin * 2, Y: (p.h-coverSize)/2 - 30, W: coverSize, H: coverSize}
}

// textLeft is where the title column starts.
func (p *NowPlaying) textLeft() float64 {
	if p.layout == LayoutDetails {
		return ui.Margin * 2
	}
	c := p.coverRect()
	return c.X + c.W + ui.Margin*2
}

func (p *NowPlaying) progressRect() ui.Rect {
	x := p.textLeft()
	return ui.Rect{X: x, Y: p.h - 110, W: p.w - x - ui.Margin*2, H: progressH}
}

func (p *NowPlaying) buttons() []button {
	bar := p.progressRect()
	y := bar.Y + 44
	out := make([]button, 0, 3)
	for i, id := range []buttonID{buttonShuffle, buttonLike, buttonRepeat} {
		x := bar.X + bar.W/2 + float64(i-1)*(buttonSize+buttonGap) - buttonSize/2
		out = append(out, button{id: id, rect: ui.Rect{X: x, Y: y, W: buttonSize, H: buttonSize}})
	}
	return out
}

func formatClock(wc media.WallClock) string {
	return fmt.Sprintf("%02d:%02d", wc.Hour, wc.Minute)
}

// formatTime renders seconds as m:ss, or h:mm:ss past an hour.
func formatTime(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func (p *NowPlaying) Draw(c render.Canvas) {
	if p.showClock && p.clock != "" {
		c.Text(p.clock, p.w-ui.Margin, ui.HeaderHeight/2, ui.BodySize, p.theme.Muted, render.AlignRight)
	}
	if !p.connected && p.hasState {
		c.Text("Phone disconnected", ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, p.theme.Error, render.AlignLeft)
	} else if p.device != "" {
		c.Text(p.device, ui.Margin, ui.HeaderHeight/2, ui.CaptionSize, p.theme.Subtle, render.AlignLeft)
	}

	if !p.state.HasTrack() {
		c.Text("Nothing playing", p.w/2, p.h/2, ui.TitleSize, p.theme.Muted, render.AlignCenter)
		return
	}

	if p.layout == LayoutCover {
		p.drawCover(c)
	}
	p.drawDetails(c)
	p.drawProgress(c)
	p.drawButtons(c)
	p.drawVolume(c)
}

func (p *NowPlaying) drawCover(c render.Canvas) {
	r := p.coverRect()
	if p.fader.Current() == nil {
		c.FillRoundedRect(r.X, r.Y, r.W, r.H, ui.Corner, render.WithAlpha(p.theme.Panel, 0.8))
		if note := icons.Note(); note != "" {
			c.Text(note, r.X+r.W/2, r.Y+r.H/2, coverSize/3, p.theme.Subtle, render.AlignCenter)
		}
		return
	}
	p.fader.Draw(c, r.X, r.Y, r.W, r.H)
}

func (p *NowPlaying) drawDetails(c render.Canvas) {
	x := p.textLeft()
	maxW := p.w - x - ui.Margin*2
	titleSize := ui.TitleSize * 1.2
	if p.layout == LayoutDetails {
		titleSize = ui.TitleSize * 1.6
	}
	y := p.h*0.3 - 20

	lines := render.Wrap(c, p.state.Track, titleSize, maxW, 2)
	for _, line := range lines {
		c.Text(line, x, y, titleSize, p.theme.Text, render.AlignLeft)
		y += titleSize * 1.25
	}
	y += 8
	c.Text(render.Truncate(c, p.state.Artist, ui.BodySize, maxW), x, y, ui.BodySize, p.theme.Primary, render.AlignLeft)
	y += ui.BodySize * 1.5
	c.Text(render.Truncate(c, p.state.Album, ui.BodySize, maxW), x, y, ui.BodySize, p.theme.Muted, render.AlignLeft)

	if !p.state.IsPlaying {
		c.Text("Paused", x, y+ui.BodySize*1.8, ui.CaptionSize, p.theme.Subtle, render.AlignLeft)
	}
}

func (p *NowPlaying) drawProgress(c render.Canvas) {
	bar := p.progressRect()
	c.FillRoundedRect(bar.X, bar.Y, bar.W, bar.H, bar.H/2, render.WithAlpha(p.theme.Subtle, 0.5))
	pos := p.Position()
	if d := float64(p.state.Duration); d > 0 {
		fill := bar.W * pos / d
		c.FillRoundedRect(bar.X, bar.Y, fill, bar.H, bar.H/2, p.theme.Primary)
		c.FillCircle(bar.X+fill, bar.Y+bar.H/2, bar.H*1.5, p.theme.Text)
	}
	ty := bar.Y + 24
	c.Text(formatTime(pos), bar.X, ty, ui.CaptionSize, p.theme.Muted, render.AlignLeft)
	c.Text(formatTime(float64(p.state.Duration)), bar.X+bar.W, ty, ui.CaptionSize, p.theme.Muted, render.AlignRight)
}

func (p *NowPlaying) drawButtons(c render.Canvas) {
	for _, b := range p.buttons() {
		r := b.rect
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		var label string
		active := false
		switch b.id {
		case buttonShuffle:
			label, active = icons.Shuffle(), p.state.ShuffleEnabled
		case buttonLike:
			label, active = icons.Favorite(), p.state.IsLiked
		case buttonRepeat:
			label = icons.Repeat(p.state.Repeat == media.RepeatTrack)
			active = p.state.Repeat != media.RepeatOff
		}
		col := p.theme.Subtle
		if active {
			col = p.theme.Primary
		}
		c.FillCircle(cx, cy, r.W/2, render.WithAlpha(p.theme.Panel, 0.6))
		c.Text(label, cx, cy, ui.BodySize, col, render.AlignCenter)
	}
}

func (p *NowPlaying) drawVolume(c render.Canvas) {
	now := p.env.Now()
	if !now.Before(p.volumeUntil) || p.state.Volume < 0 {
		return
	}
	// Fades during the last quarter.
	alpha := min(p.volumeUntil.Sub(now).Seconds()/(volumeOverlay.Seconds()/4), 1)
	x := p.w - ui.Margin*2 - volumeBarW
	y := (p.h - volumeBarH) / 2
	c.FillRoundedRect(x, y, volumeBarW, volumeBarH, volumeBarW/2, render.WithAlpha(p.theme.Panel, 0.8*alpha))
	fill := volumeBarH * float64(p.state.Volume) / 100
	c.FillRoundedRect(x, y+volumeBarH-fill, volumeBarW, fill, volumeBarW/2, render.WithAlpha(p.theme.Primary, alpha))
	c.Text(fmt.Sprintf("%d%%", p.state.Volume), x+volumeBarW/2, y+volumeBarH+24, ui.CaptionSize, render.WithAlpha(p.theme.Text, alpha), render.AlignCenter)
}
