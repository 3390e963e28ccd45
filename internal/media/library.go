package media

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

// LibraryKind selects one of the Spotify library listings.
type LibraryKind int

const (
	LibraryRecent LibraryKind = iota
	LibraryLiked
	LibraryAlbums
	LibraryPlaylists
	LibraryArtists
)

// String returns the listing name.
func (k LibraryKind) String() string {
	switch k {
	case LibraryRecent:
		return "recent"
	case LibraryLiked:
		return "liked"
	case LibraryAlbums:
		return "albums"
	case LibraryPlaylists:
		return "playlists"
	case LibraryArtists:
		return "artists"
	default:
		return "unknown"
	}
}

func (k LibraryKind) action() Action {
	switch k {
	case LibraryLiked:
		return ActionLibraryLiked
	case LibraryAlbums:
		return ActionLibraryAlbums
	case LibraryPlaylists:
		return ActionLibraryPlaylists
	case LibraryArtists:
		return ActionLibraryArtists
	default:
		return ActionLibraryRecent
	}
}

func (k LibraryKind) key() string {
	switch k {
	case LibraryLiked:
		return broker.KeyLibraryLiked
	case LibraryAlbums:
		return broker.KeyLibraryAlbums
	case LibraryPlaylists:
		return broker.KeyLibraryPlaylists
	case LibraryArtists:
		return broker.KeyLibraryArtists
	default:
		return broker.KeyLibraryRecent
	}
}

// LibraryOverview summarizes the user's Spotify library.
type LibraryOverview struct {
	User           string
	LikedTotal     int
	AlbumsTotal    int
	PlaylistsTotal int
	ArtistsTotal   int
	CurrentTrack   string
	CurrentArtist  string
	Premium        bool
	Timestamp      int64
}

// LibraryTrack is a track item (recent and liked listings).
type LibraryTrack struct {
	ID       string
	Name     string
	Artist   string
	Album    string
	Duration time.Duration
	URI      string
	ImageURL string
}

// LibraryAlbum is an album item.
type LibraryAlbum struct {
	ID         string
	Name       string
	Artist     string
	TrackCount int
	Year       string
	URI        string
	ImageURL   string
}

// LibraryPlaylist is a playlist item.
type LibraryPlaylist struct {
	ID         string
	Name       string
	Owner      string
	TrackCount int
	URI        string
	ImageURL   string
}

// LibraryArtist is a followed-artist item.
type LibraryArtist struct {
	ID        string
	Name      string
	Genres    []string
	Followers int
	URI       string
	ImageURL  string
}

// LibraryList is one page of a library listing.
type LibraryList[T any] struct {
	Items     []T
	Offset    int
	Limit     int
	Total     int
	HasMore   bool
	Timestamp int64
}

// ParseLibraryOverview parses {u,lt,al,pl,ar,ct,ca,pr,t}.
func ParseLibraryOverview(data []byte) (LibraryOverview, bool) {
	o, ok := decodeObject(data)
	if !ok {
		return LibraryOverview{}, false
	}
	ov := LibraryOverview{
		User:           o.str("u", "user"),
		LikedTotal:     o.intOr(0, "lt", "likedTotal"),
		AlbumsTotal:    o.intOr(0, "al", "albumsTotal"),
		PlaylistsTotal: o.intOr(0, "pl", "playlistsTotal"),
		ArtistsTotal:   o.intOr(0, "ar", "artistsTotal"),
		CurrentTrack:   o.str("ct", "currentTrack"),
		CurrentArtist:  o.str("ca", "currentArtist"),
	}
	ov.Premium, _ = o.bool("pr", "premium")
	ov.Timestamp, _ = o.int("t", "timestamp")
	return ov, true
}

func parseLibraryList[T any](data []byte, item func(object) (T, bool)) (LibraryList[T], bool) {
	o, ok := decodeObject(data)
	if !ok {
		return LibraryList[T]{}, false
	}
	list := LibraryList[T]{
		Offset: o.intOr(0, "o", "offset"),
		Limit:  o.intOr(0, "l", "limit"),
	}
	for _, it := range o.objects("it", "items") {
		if v, ok := item(it); ok {
			list.Items = append(list.Items, v)
		}
	}
	list.Total = o.intOr(list.Offset+len(list.Items), "tt", "total")
	if more, ok := o.bool("hm", "hasMore"); ok {
		list.HasMore = more
	} else {
		list.HasMore = list.Offset+len(list.Items) < list.Total
	}
	list.Timestamp, _ = o.int("t", "timestamp")
	return list, true
}

// ParseLibraryTracks parses a recent/liked listing.
func ParseLibraryTracks(data []byte) (LibraryList[LibraryTrack], bool) {
	return parseLibraryList(data, func(o object) (LibraryTrack, bool) {
		t := LibraryTrack{
			ID:       o.str("i", "id"),
			Name:     o.str("n", "name"),
			Artist:   o.str("a", "artist"),
			Album:    o.str("al", "album"),
			URI:      o.str("u", "uri"),
			ImageURL: o.str("im", "image"),
		}
		if ms, ok := o.int("d", "duration"); ok && ms > 0 {
			t.Duration = time.Duration(ms) * time.Millisecond
		}
		return t, t.URI != "" || t.ID != ""
	})
}

// ParseLibraryAlbums parses an albums listing.
func ParseLibraryAlbums(data []byte) (LibraryList[LibraryAlbum], bool) {
	return parseLibraryList(data, func(o object) (LibraryAlbum, bool) {
		a := LibraryAlbum{
			ID:         o.str("i", "id"),
			Name:       o.str("n", "name"),
			Artist:     o.str("a", "artist"),
			TrackCount: o.intOr(0, "tc", "trackCount"),
			Year:       o.str("y", "year"),
			URI:        o.str("u", "uri"),
			ImageURL:   o.str("im", "image"),
		}
		return a, a.URI != "" || a.ID != ""
	})
}

// ParseLibraryPlaylists parses a playlists listing.
func ParseLibraryPlaylists(data []byte) (LibraryList[LibraryPlaylist], bool) {
	return parseLibraryList(data, func(o object) (LibraryPlaylist, bool) {
		p := LibraryPlaylist{
			ID:         o.str("i", "id"),
			Name:       o.str("n", "name"),
			Owner:      o.str("o", "owner"),
			TrackCount: o.intOr(0, "tc", "trackCount"),
			URI:        o.str("u", "uri"),
			ImageURL:   o.str("im", "image"),
		}
		return p, p.URI != "" || p.ID != ""
	})
}

// ParseLibraryArtists parses a followed-artists listing.
func ParseLibraryArtists(data []byte) (LibraryList[LibraryArtist], bool) {
	return parseLibraryList(data, func(o object) (LibraryArtist, bool) {
		a := LibraryArtist{
			ID:        o.str("i", "id"),
			Name:      o.str("n", "name"),
			Genres:    o.strings("g", "genres"),
			Followers: o.intOr(0, "f", "followers"),
			URI:       o.str("u", "uri"),
			ImageURL:  o.str("im", "image"),
		}
		return a, a.URI != "" || a.ID != ""
	})
}

// RequestLibraryOverview asks for the library summary.
func (s *Service) RequestLibraryOverview(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionLibraryOverview))
}

// RequestLibrary asks for a page of a library listing; after is an optional cursor.
func (s *Service) RequestLibrary(ctx context.Context, kind LibraryKind, offset, limit int, after string) bool {
	return s.Send(ctx, Library(kind.action(), offset, limit, after))
}

// LibraryOverview returns the published library summary.
func (s *Service) LibraryOverview(ctx context.Context) (LibraryOverview, bool) {
	raw, ok := s.getString(ctx, broker.KeyLibraryOverview)
	if !ok || raw == "" {
		return LibraryOverview{}, false
	}
	return ParseLibraryOverview([]byte(raw))
}

func (s *Service) libraryRaw(ctx context.Context, kind LibraryKind) ([]byte, bool) {
	raw, ok := s.getString(ctx, kind.key())
	if !ok || raw == "" {
		return nil, false
	}
	return []byte(raw), true
}

// LibraryTracks returns the recent or liked listing.
func (s *Service) LibraryTracks(ctx context.Context, kind LibraryKind) (LibraryList[LibraryTrack], bool) {
	if kind != LibraryRecent && kind != LibraryLiked {
		return LibraryList[LibraryTrack]{}, false
	}
	raw, ok := s.libraryRaw(ctx, kind)
	if !ok {
		return LibraryList[LibraryTrack]{}, false
	}
	list, ok := ParseLibraryTracks(raw)
	if !ok {
		s.log.Warn("parse library listing", zap.Stringer("kind", kind))
	}
	return list, ok
}

// LibraryAlbums returns the albums listing.
func (s *Service) LibraryAlbums(ctx context.Context) (LibraryList[LibraryAlbum], bool) {
	raw, ok := s.libraryRaw(ctx, LibraryAlbums)
	if !ok {
		return LibraryList[LibraryAlbum]{}, false
	}
	return ParseLibraryAlbums(raw)
}

// LibraryPlaylists returns the playlists listing.
func (s *Service) LibraryPlaylists(ctx context.Context) (LibraryList[LibraryPlaylist], bool) {
	raw, ok := s.libraryRaw(ctx, LibraryPlaylists)
	if !ok {
		return LibraryList[LibraryPlaylist]{}, false
	}
	return ParseLibraryPlaylists(raw)
}

// LibraryArtists returns the followed-artists listing.
func (s *Service) LibraryArtists(ctx context.Context) (LibraryList[LibraryArtist], bool) {
	raw, ok := s.libraryRaw(ctx, LibraryArtists)
	if !ok {
		return LibraryList[LibraryArtist]{}, false
	}
	return ParseLibraryArtists(raw)
}
