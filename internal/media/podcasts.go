package media

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

// Page sizes used by the podcast screens.
const (
	DefaultEpisodePageSize = 15
	DefaultRecentLimit     = 30
	MaxPodcastChannels     = 50
)

// PodcastChannel is one subscribed podcast.
type PodcastChannel struct {
	ID           string
	Title        string
	Author       string
	EpisodeCount int
}

// Episode is a playable podcast episode.
type Episode struct {
	EpisodeHash string
	Title       string
	Duration    time.Duration
	PublishDate string // human-readable, as provided by the phone
	PubDate     int64  // epoch milliseconds, 0 when unknown
}

// Published returns the publish time, or the zero time when unknown.
func (e Episode) Published() time.Time {
	if e.PubDate <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.PubDate)
}

// Age renders the publish time relative to now ("3 days ago"), falling
// back to the human date string.
func (e Episode) Age(now time.Time) string {
	if pub := e.Published(); !pub.IsZero() {
		return humanize.RelTime(pub, now, "ago", "from now")
	}
	return e.PublishDate
}

// RecentEpisode is an episode from the cross-podcast recent list.
type RecentEpisode struct {
	Episode
	PodcastID    string
	PodcastTitle string
	EpisodeIndex int // -1 when absent
}

// EpisodePage is one page of a podcast's episodes.
type EpisodePage struct {
	PodcastID     string
	PodcastTitle  string
	Offset        int
	LoadedCount   int
	TotalEpisodes int
	HasMore       bool
	Episodes      []Episode
}

// End returns the offset just past this page.
func (p EpisodePage) End() int {
	return p.Offset + p.LoadedCount
}

// PodcastInfo is the metadata of the podcast episode currently playing.
type PodcastInfo struct {
	ShowName           string
	EpisodeTitle       string
	EpisodeDescription string
	Author             string
	ArtPath            string
	PodcastCount       int
	EpisodeCount       int
}

// ParsePodcastList parses {podcasts:[{id,title,author,episodeCount}]}.
// A bare array is accepted as well.
func ParsePodcastList(data []byte) ([]PodcastChannel, bool) {
	var items []object
	if o, ok := decodeObject(data); ok {
		items = o.objects("p", "podcasts")
	} else {
		items = decodeObjects(data)
		if items == nil {
			return nil, false
		}
	}

	channels := make([]PodcastChannel, 0, len(items))
	for _, it := range items {
		ch := PodcastChannel{
			ID:           it.str("i", "id"),
			Title:        it.str("t", "title"),
			Author:       it.str("a", "author"),
			EpisodeCount: it.intOr(0, "ec", "episodeCount"),
		}
		if ch.ID == "" {
			continue
		}
		channels = append(channels, ch)
		if len(channels) == MaxPodcastChannels {
			break
		}
	}
	return channels, true
}

func parseEpisode(it object) Episode {
	ep := Episode{
		EpisodeHash: it.str("h", "episodeHash"),
		Title:       it.str("t", "title"),
		PublishDate: it.str("publishDate"),
	}
	if ms, ok := it.int("d", "duration"); ok && ms > 0 {
		ep.Duration = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := it.int("pubDate"); ok {
		ep.PubDate = ms
	}
	if ep.PublishDate == "" && ep.PubDate > 0 {
		ep.PublishDate = time.UnixMilli(ep.PubDate).UTC().Format("Jan 2, 2006")
	}
	return ep
}

// ParseRecentEpisodes parses {episodes:[...]} from the recent-episodes key.
func ParseRecentEpisodes(data []byte) ([]RecentEpisode, bool) {
	o, ok := decodeObject(data)
	if !ok {
		return nil, false
	}
	items := o.objects("e", "episodes")
	out := make([]RecentEpisode, 0, len(items))
	for _, it := range items {
		re := RecentEpisode{
			Episode:      parseEpisode(it),
			PodcastID:    it.str("pi", "podcastId"),
			PodcastTitle: it.str("pt", "podcastTitle"),
			EpisodeIndex: it.intOr(-1, "ei", "episodeIndex"),
		}
		if re.EpisodeHash == "" {
			continue
		}
		out = append(out, re)
	}
	return out, true
}

// ParseEpisodePage parses a per-podcast episode page and normalizes its
// counters so that offset+loaded <= total and hasMore implies more remain.
func ParseEpisodePage(data []byte) (EpisodePage, bool) {
	o, ok := decodeObject(data)
	if !ok {
		return EpisodePage{}, false
	}
	page := EpisodePage{
		PodcastID:    o.str("pi", "podcastId"),
		PodcastTitle: o.str("pt", "podcastTitle"),
		Offset:       max(0, o.intOr(0, "o", "offset")),
	}
	for _, it := range o.objects("e", "episodes") {
		ep := parseEpisode(it)
		if ep.EpisodeHash == "" {
			continue
		}
		page.Episodes = append(page.Episodes, ep)
	}
	page.LoadedCount = len(page.Episodes)

	page.TotalEpisodes = o.intOr(page.End(), "tt", "totalEpisodes")
	if page.TotalEpisodes < page.End() {
		page.TotalEpisodes = page.End()
	}
	if more, ok := o.bool("hm", "hasMore"); ok {
		page.HasMore = more && page.End() < page.TotalEpisodes
	} else {
		page.HasMore = page.End() < page.TotalEpisodes
	}
	return page, true
}

// MergeEpisodes appends next to loaded, dropping episodes already present.
func MergeEpisodes(loaded []Episode, next []Episode) []Episode {
	return lo.UniqBy(append(append([]Episode{}, loaded...), next...), func(e Episode) string {
		return e.EpisodeHash
	})
}

// RequestPodcastList asks the phone to publish the podcast list.
func (s *Service) RequestPodcastList(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionRequestPodcastList))
}

// RequestRecentEpisodes asks for up to limit recent episodes.
func (s *Service) RequestRecentEpisodes(ctx context.Context, limit int) bool {
	return s.Send(ctx, RequestRecentEpisodes(limit))
}

// RequestEpisodes asks for a page of episodes of one podcast.
func (s *Service) RequestEpisodes(ctx context.Context, podcastID string, offset, limit int) bool {
	return s.Send(ctx, RequestEpisodes(podcastID, offset, limit))
}

// PlayEpisode plays an episode by hash.
func (s *Service) PlayEpisode(ctx context.Context, episodeHash string) bool {
	return s.Send(ctx, PlayEpisode(episodeHash))
}

// PodcastList returns the published podcast list, if any.
func (s *Service) PodcastList(ctx context.Context) ([]PodcastChannel, bool) {
	raw, ok := s.getString(ctx, broker.KeyPodcastList)
	if !ok || raw == "" {
		return nil, false
	}
	list, ok := ParsePodcastList([]byte(raw))
	if !ok {
		s.log.Warn("parse podcast list", zap.Int("bytes", len(raw)))
	}
	return list, ok
}

// RecentEpisodes returns the published recent-episode list, if any.
func (s *Service) RecentEpisodes(ctx context.Context) ([]RecentEpisode, bool) {
	raw, ok := s.getString(ctx, broker.KeyPodcastRecentEpisodes)
	if !ok || raw == "" {
		return nil, false
	}
	eps, ok := ParseRecentEpisodes([]byte(raw))
	if !ok {
		s.log.Warn("parse recent episodes", zap.Int("bytes", len(raw)))
	}
	return eps, ok
}

// Episodes returns the last published episode page for podcastID.
func (s *Service) Episodes(ctx context.Context, podcastID string) (EpisodePage, bool) {
	if podcastID == "" {
		return EpisodePage{}, false
	}
	raw, ok := s.getString(ctx, broker.PodcastEpisodesKey(podcastID))
	if !ok || raw == "" {
		return EpisodePage{}, false
	}
	page, ok := ParseEpisodePage([]byte(raw))
	if !ok {
		s.log.Warn("parse episode page", zap.String("podcast", podcastID))
		return EpisodePage{}, false
	}
	if page.PodcastID == "" {
		page.PodcastID = podcastID
	}
	return page, true
}

// PodcastInfo returns metadata for the episode currently playing.
func (s *Service) PodcastInfo(ctx context.Context) (PodcastInfo, bool) {
	vals, err := s.store.MGet(ctx,
		broker.KeyPodcastShowName,
		broker.KeyPodcastEpisodeTitle,
		broker.KeyPodcastEpisodeDescription,
		broker.KeyPodcastAuthor,
		broker.KeyPodcastArtPath,
		broker.KeyPodcastCount,
		broker.KeyPodcastEpisodeCount,
	)
	if err != nil {
		return PodcastInfo{}, false
	}
	info := PodcastInfo{
		ShowName:           vals[broker.KeyPodcastShowName],
		EpisodeTitle:       vals[broker.KeyPodcastEpisodeTitle],
		EpisodeDescription: vals[broker.KeyPodcastEpisodeDescription],
		Author:             vals[broker.KeyPodcastAuthor],
		ArtPath:            vals[broker.KeyPodcastArtPath],
	}
	info.PodcastCount, _ = vals.Int(broker.KeyPodcastCount)
	info.EpisodeCount, _ = vals.Int(broker.KeyPodcastEpisodeCount)
	return info, info.ShowName != "" || info.EpisodeTitle != ""
}
