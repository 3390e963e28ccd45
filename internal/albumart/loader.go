package albumart

import (
	"context"
	"errors"
	"image"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/media"
)

// RetryInterval is how often a missing cover is looked up again.
const RetryInterval = time.Second

// Requester asks the bridge to fetch a cover.
type Requester interface {
	RequestAlbumArt(ctx context.Context, artist, album string) (string, bool)
}

// Loader tracks the cover of the playing track. It looks at the path the
// bridge published first, then the hash-named cache file, and requests
// the cover once per track when neither exists.
type Loader struct {
	cache *Cache
	req   Requester
	log   *zap.Logger

	retry     media.Every
	key       string
	hash      string
	loaded    bool
	requested bool
}

// NewLoader creates a loader. cache and req may be nil.
func NewLoader(cache *Cache, req Requester, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		cache: cache,
		req:   req,
		log:   log.Named("albumart"),
		retry: media.Every{Interval: RetryInterval},
	}
}

// Hash returns the art hash of the tracked album.
func (l *Loader) Hash() string { return l.hash }

// Requested reports whether the bridge was asked for the current cover.
func (l *Loader) Requested() bool { return l.requested }

// Update follows st. It returns changed=true when the shown cover should
// be replaced by img; a nil img means no cover.
func (l *Loader) Update(ctx context.Context, st media.State, now time.Time) (img image.Image, changed bool) {
	key := st.Artist + "\x00" + st.Album + "\x00" + st.AlbumArtPath
	if key != l.key {
		l.key = key
		l.hash = ""
		l.loaded = false
		l.requested = false
		l.retry.Reset()
		changed = true
		if st.Artist != "" || st.Album != "" {
			l.hash = media.ArtHash(st.Artist, st.Album)
		}
	}
	if l.loaded || (l.hash == "" && st.AlbumArtPath == "") {
		return nil, changed
	}
	if !l.retry.Due(now) {
		return nil, changed
	}

	img, err := l.load(st.AlbumArtPath)
	switch {
	case err == nil:
		l.loaded = true
		return img, true
	case errors.Is(err, ErrNotCached):
		if !l.requested && l.req != nil && l.hash != "" {
			_, l.requested = l.req.RequestAlbumArt(ctx, st.Artist, st.Album)
		}
	default:
		l.log.Warn("decode album art", zap.String("hash", l.hash), zap.Error(err))
		l.loaded = true
	}
	return nil, changed
}

func (l *Loader) load(published string) (image.Image, error) {
	if published != "" {
		if _, err := os.Stat(published); err == nil {
			return LoadFile(published)
		}
	}
	if l.hash == "" {
		return nil, ErrNotCached
	}
	return l.cache.Load(l.hash)
}
