package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediadash/internal/broker"
)

func TestParsePodcastList(t *testing.T) {
	data := `{"podcasts":[
		{"id":"p1","title":"Show One","author":"A","episodeCount":12,"unknown":{"x":[1,2]}},
		{"title":"no id"},
		{"id":"p2","title":"Show Two","episodeCount":"7"}
	]}`

	list, ok := ParsePodcastList([]byte(data))
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, PodcastChannel{ID: "p1", Title: "Show One", Author: "A", EpisodeCount: 12}, list[0])
	assert.Equal(t, 7, list[1].EpisodeCount)

	_, ok = ParsePodcastList([]byte(`garbage`))
	assert.False(t, ok)
}

func TestParsePodcastList_Capped(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"podcasts":[`)
	for i := range 60 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":"p%d"}`, i)
	}
	b.WriteString(`]}`)

	list, ok := ParsePodcastList([]byte(b.String()))
	require.True(t, ok)
	assert.Len(t, list, MaxPodcastChannels)
}

func TestParseRecentEpisodes(t *testing.T) {
	data := `{"episodes":[
		{"episodeHash":"h1","podcastId":"p1","podcastTitle":"Show","title":"Ep","duration":1800000,"publishDate":"Mar 1","pubDate":1709251200000,"episodeIndex":3},
		{"episodeHash":"h2","title":"Ep2","pubDate":1709251200000}
	]}`

	eps, ok := ParseRecentEpisodes([]byte(data))
	require.True(t, ok)
	require.Len(t, eps, 2)
	assert.Equal(t, 30*time.Minute, eps[0].Duration)
	assert.Equal(t, 3, eps[0].EpisodeIndex)
	assert.Equal(t, "Mar 1", eps[0].PublishDate)
	assert.Equal(t, -1, eps[1].EpisodeIndex)
	assert.Equal(t, "Mar 1, 2024", eps[1].PublishDate)
}

func TestParseEpisodePage_Invariants(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantTotal int
		wantMore  bool
	}{
		{"consistent", `{"offset":0,"totalEpisodes":20,"hasMore":true,"episodes":[{"episodeHash":"a"}]}`, 20, true},
		{"total too small", `{"offset":5,"totalEpisodes":2,"hasMore":true,"episodes":[{"episodeHash":"a"}]}`, 6, false},
		{"hasMore missing", `{"offset":0,"totalEpisodes":3,"episodes":[{"episodeHash":"a"}]}`, 3, true},
		{"total missing", `{"offset":0,"episodes":[{"episodeHash":"a"},{"episodeHash":"b"}]}`, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := ParseEpisodePage([]byte(tt.data))
			require.True(t, ok)
			assert.Equal(t, tt.wantTotal, page.TotalEpisodes)
			assert.Equal(t, tt.wantMore, page.HasMore)
			assert.LessOrEqual(t, page.End(), page.TotalEpisodes)
		})
	}
}

func TestMergeEpisodes(t *testing.T) {
	a := []Episode{{EpisodeHash: "1"}, {EpisodeHash: "2"}}
	b := []Episode{{EpisodeHash: "2"}, {EpisodeHash: "3"}}

	got := MergeEpisodes(a, b)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[2].EpisodeHash)
	assert.Len(t, a, 2)
}

func TestParseQueue(t *testing.T) {
	data := `{"service":"spotify","timestamp":17,
		"currentlyPlaying":{"title":"Now","artist":"A","uri":"spotify:track:0","duration":1000},
		"tracks":[{"title":"Next","artist":"B","album":"C","uri":"spotify:track:1","duration":200000}]}`

	q, ok := ParseQueue([]byte(data))
	require.True(t, ok)
	assert.Equal(t, "spotify", q.Service)
	require.NotNil(t, q.CurrentlyPlaying)
	assert.Equal(t, "Now", q.CurrentlyPlaying.Title)
	require.Len(t, q.Tracks, 1)
	assert.Equal(t, 200*time.Second, q.Tracks[0].Duration)

	q, ok = ParseQueue([]byte(`{"tracks":[]}`))
	require.True(t, ok)
	assert.Nil(t, q.CurrentlyPlaying)
}

func TestParseLibraryOverview_ShortKeysPreferred(t *testing.T) {
	data := `{"u":"short","user":"long","lt":10,"likedTotal":99,"al":2,"pl":3,"ar":4,"ct":"T","ca":"A","pr":1,"t":5}`

	ov, ok := ParseLibraryOverview([]byte(data))
	require.True(t, ok)
	assert.Equal(t, LibraryOverview{
		User: "short", LikedTotal: 10, AlbumsTotal: 2, PlaylistsTotal: 3, ArtistsTotal: 4,
		CurrentTrack: "T", CurrentArtist: "A", Premium: true, Timestamp: 5,
	}, ov)
}

func TestCatalogParsers_ShortKeysPreferred(t *testing.T) {
	tests := []struct {
		name string
		got  func() any
		want any
	}{
		{"podcast list", func() any {
			l, _ := ParsePodcastList([]byte(`{"podcasts":[{"id":"x"}],"p":[{"id":"long","i":"short","title":"L","t":"S","ec":3,"episodeCount":9}]}`))
			return l
		}, []PodcastChannel{{ID: "short", Title: "S", EpisodeCount: 3}}},
		{"episode page", func() any {
			pg, _ := ParseEpisodePage([]byte(`{"podcastId":"long","pi":"short","o":0,"tt":1,"totalEpisodes":50,
				"e":[{"episodeHash":"H-long","h":"H-short","title":"L","t":"S"}]}`))
			return []string{pg.PodcastID, pg.Episodes[0].EpisodeHash, pg.Episodes[0].Title, fmt.Sprint(pg.TotalEpisodes)}
		}, []string{"short", "H-short", "S", "1"}},
		{"recent episodes", func() any {
			eps, _ := ParseRecentEpisodes([]byte(`{"e":[{"h":"H-short","episodeHash":"H-long","podcastId":"long","pi":"short"}]}`))
			return []string{eps[0].EpisodeHash, eps[0].PodcastID}
		}, []string{"H-short", "short"}},
		{"queue", func() any {
			q, _ := ParseQueue([]byte(`{"service":"long","s":"short",
				"it":[{"uri":"u:long","u":"u:short","title":"L","n":"S"}],"tracks":[]}`))
			return []string{q.Service, q.Tracks[0].URI, q.Tracks[0].Title}
		}, []string{"short", "u:short", "S"}},
		{"channels", func() any {
			return ParseChannels([]byte(`{"channels":["long"],"c":["short"]}`))
		}, []string{"short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got())
		})
	}
}

func TestParseLibraryLists(t *testing.T) {
	tracks, ok := ParseLibraryTracks([]byte(`{"it":[{"i":"1","n":"Song","a":"Art","al":"Alb","d":61000,"u":"spotify:track:1","im":"http://x"}],"o":0,"l":20,"tt":40,"hm":true,"t":9}`))
	require.True(t, ok)
	require.Len(t, tracks.Items, 1)
	assert.Equal(t, 61*time.Second, tracks.Items[0].Duration)
	assert.Equal(t, 40, tracks.Total)
	assert.True(t, tracks.HasMore)

	albums, ok := ParseLibraryAlbums([]byte(`{"it":[{"i":"a","n":"Album","a":"X","tc":12,"y":"1999","u":"spotify:album:a"}]}`))
	require.True(t, ok)
	assert.Equal(t, 12, albums.Items[0].TrackCount)
	assert.Equal(t, "1999", albums.Items[0].Year)
	assert.False(t, albums.HasMore)

	playlists, ok := ParseLibraryPlaylists([]byte(`{"it":[{"i":"p","n":"Mix","o":"me","tc":3,"u":"spotify:playlist:p"}]}`))
	require.True(t, ok)
	assert.Equal(t, "me", playlists.Items[0].Owner)

	artists, ok := ParseLibraryArtists([]byte(`{"it":[{"i":"r","n":"Band","g":["rock","pop"],"f":1200,"u":"spotify:artist:r"},{"n":"no id"}]}`))
	require.True(t, ok)
	require.Len(t, artists.Items, 1)
	assert.Equal(t, []string{"rock", "pop"}, artists.Items[0].Genres)
	assert.Equal(t, 1200, artists.Items[0].Followers)
}

// bridge answers podcast requests the way the phone does, one poll late.
type bridge struct {
	mr       *miniredis.Miniredis
	episodes int
	handled  int
}

func (b *bridge) serve(t *testing.T) {
	t.Helper()
	items, _ := b.mr.List(broker.KeyPlaybackCommandQ)
	for i := len(items) - 1 - b.handled; i >= 0; i-- {
		b.handled++
		cmd := items[i]
		switch {
		case strings.Contains(cmd, `"request_podcast_list"`):
			var sb strings.Builder
			sb.WriteString(`{"podcasts":[`)
			for n := range 3 {
				if n > 0 {
					sb.WriteByte(',')
				}
				fmt.Fprintf(&sb, `{"id":"p%d","title":"Show %d","episodeCount":%d}`, n, n, b.episodes)
			}
			sb.WriteString(`]}`)
			b.mr.Set(broker.KeyPodcastList, sb.String())
		case strings.Contains(cmd, `"request_podcast_episodes"`):
			var offset, limit int
			_, err := fmt.Sscanf(between(cmd, `"offset":`, ","), "%d", &offset)
			require.NoError(t, err)
			_, err = fmt.Sscanf(between(cmd, `"limit":`, ","), "%d", &limit)
			require.NoError(t, err)
			b.mr.Set(broker.PodcastEpisodesKey("p1"), b.page(offset, limit))
		}
	}
}

func (b *bridge) page(offset, limit int) string {
	end := min(offset+limit, b.episodes)
	var sb strings.Builder
	fmt.Fprintf(&sb, `{"podcastId":"p1","totalEpisodes":%d,"offset":%d,"hasMore":%t,"episodes":[`, b.episodes, offset, end < b.episodes)
	for i := offset; i < end; i++ {
		if i > offset {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"episodeHash":"e%d","title":"Episode %d","duration":60000}`, i, i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.IndexAny(s, end+"}"); j >= 0 {
		return s[:j]
	}
	return s
}

func TestPodcastPagination(t *testing.T) {
	svc, mr, clock := newTestService(t)
	ctx := context.Background()
	b := &bridge{mr: mr, episodes: 37}

	list := Pending[[]PodcastChannel]{
		Request:  svc.RequestPodcastList,
		Fetch:    svc.PodcastList,
		Interval: CatalogPollInterval,
		Timeout:  CatalogTimeout,
	}
	require.True(t, list.Start(ctx, clock.t))
	assert.False(t, list.Update(ctx, clock.t), "nothing published yet")

	b.serve(t)
	clock.advance(CatalogPollInterval)
	require.True(t, list.Update(ctx, clock.t))
	require.Equal(t, PendingReady, list.State())
	assert.Len(t, list.Value(), 3)

	var loaded []Episode
	offset := 0
	for {
		want := offset
		page := Pending[EpisodePage]{
			Request: func(ctx context.Context) bool {
				return svc.RequestEpisodes(ctx, "p1", want, DefaultEpisodePageSize)
			},
			Fetch:    func(ctx context.Context) (EpisodePage, bool) { return svc.Episodes(ctx, "p1") },
			Accept:   func(p EpisodePage) bool { return p.Offset == want },
			Interval: CatalogPollInterval,
			Timeout:  CatalogTimeout,
		}
		require.True(t, page.Start(ctx, clock.t))
		b.serve(t)
		for !page.Update(ctx, clock.t) {
			clock.advance(CatalogPollInterval)
		}
		require.Equal(t, PendingReady, page.State())

		p := page.Value()
		loaded = MergeEpisodes(loaded, p.Episodes)
		if !p.HasMore {
			break
		}
		offset = p.End()
	}

	assert.Len(t, loaded, 37)
	assert.Equal(t, "e36", loaded[36].EpisodeHash)
}

func TestPending_TimesOut(t *testing.T) {
	clock := newClock()
	ctx := context.Background()
	polls := 0
	p := Pending[int]{
		Request:  func(context.Context) bool { return true },
		Fetch:    func(context.Context) (int, bool) { polls++; return 0, false },
		Interval: CatalogPollInterval,
		Timeout:  CatalogTimeout,
	}
	require.True(t, p.Start(ctx, clock.t))

	settled := false
	for i := 0; i < 200 && !settled; i++ {
		settled = p.Update(ctx, clock.t)
		clock.advance(100 * time.Millisecond)
	}
	assert.Equal(t, PendingTimedOut, p.State())
	// 2 Hz over 5 s.
	assert.InDelta(t, 11, polls, 1)
}

func TestPending_RequestFailure(t *testing.T) {
	p := Pending[int]{
		Request: func(context.Context) bool { return false },
		Fetch:   func(context.Context) (int, bool) { return 1, true },
	}
	assert.False(t, p.Start(context.Background(), time.Now()))
	assert.Equal(t, PendingIdle, p.State())
	assert.False(t, p.Update(context.Background(), time.Now()))
}

func TestEvery(t *testing.T) {
	clock := newClock()
	e := Every{Interval: QueueRefreshInterval}

	assert.True(t, e.Due(clock.t))
	clock.advance(9 * time.Second)
	assert.False(t, e.Due(clock.t))
	clock.advance(time.Second)
	assert.True(t, e.Due(clock.t))
}
