// Package media is the domain API over the broker: playback state, commands,
// catalogs, queue, lyrics, channels, connection status and phone time.
package media

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

// ErrInvalidArgument is returned for rejected command parameters.
var ErrInvalidArgument = errors.New("media: invalid argument")

var stateKeys = []string{
	broker.KeyTrack,
	broker.KeyArtist,
	broker.KeyAlbum,
	broker.KeyPlaying,
	broker.KeyDuration,
	broker.KeyProgress,
	broker.KeyAlbumArtPath,
	broker.KeyVolume,
}

var spotifyKeys = []string{
	broker.KeySpotifyShuffle,
	broker.KeySpotifyRepeat,
	broker.KeySpotifyLiked,
	broker.KeyShuffleEnabled,
	broker.KeyRepeatMode,
	broker.KeyTrackLiked,
	broker.KeySpotifyTrackID,
	broker.KeySpotifyAlbumID,
	broker.KeySpotifyArtistID,
	broker.KeyTrackID,
}

// Service is the media domain API. It is not safe for concurrent use; the
// frame loop is its only caller.
type Service struct {
	store broker.Store
	log   *zap.Logger
	now   func() time.Time

	// Last-known values backing the toggle commands.
	lastPlaying bool
	lastShuffle bool
	lastRepeat  RepeatMode
	lastVolume  int

	tz   timezoneCache
	conn connectionTracker
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a media service over store.
func New(store broker.Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:      store,
		log:        log.Named("media"),
		now:        time.Now,
		lastVolume: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying broker store.
func (s *Service) Store() broker.Store {
	return s.store
}

// GetState reads the current playback state. On failure the returned state
// is zero-valued with Volume -1.
func (s *Service) GetState(ctx context.Context) (State, bool) {
	st := State{Volume: -1}

	vals, err := s.store.MGet(ctx, stateKeys...)
	if err != nil {
		s.log.Debug("read state", zap.Error(err))
		return st, false
	}

	st.Track = vals[broker.KeyTrack]
	st.Artist = vals[broker.KeyArtist]
	st.Album = vals[broker.KeyAlbum]
	st.AlbumArtPath = vals[broker.KeyAlbumArtPath]
	st.IsPlaying, _ = vals.Bool(broker.KeyPlaying)
	st.Duration, _ = vals.Int(broker.KeyDuration)
	st.Position, _ = vals.Int(broker.KeyProgress)
	if v, ok := vals.Int(broker.KeyVolume); ok {
		st.Volume = v
	}

	// Spotify extras are best-effort; a failure here keeps the base state.
	if extra, err := s.store.MGet(ctx, spotifyKeys...); err == nil {
		s.applySpotify(&st, extra)
	} else {
		s.log.Debug("read spotify state", zap.Error(err))
	}

	st.FetchedAt = s.now()
	st.normalize()

	s.lastPlaying = st.IsPlaying
	s.lastShuffle = st.ShuffleEnabled
	s.lastRepeat = st.Repeat
	s.lastVolume = st.Volume
	return st, true
}

func (s *Service) applySpotify(st *State, vals broker.Values) {
	if v, ok := vals.Bool(broker.KeySpotifyShuffle); ok {
		st.ShuffleEnabled = v
	} else if v, ok := vals.Bool(broker.KeyShuffleEnabled); ok {
		st.ShuffleEnabled = v
	}

	if m, ok := ParseRepeatMode(vals[broker.KeySpotifyRepeat]); ok {
		st.Repeat = m
	} else if m, ok := ParseRepeatMode(vals[broker.KeyRepeatMode]); ok {
		st.Repeat = m
	}

	if v, ok := vals.Bool(broker.KeySpotifyLiked); ok {
		st.IsLiked = v
	} else if v, ok := vals.Bool(broker.KeyTrackLiked); ok {
		st.IsLiked = v
	}

	st.SpotifyTrackID = vals[broker.KeySpotifyTrackID]
	if st.SpotifyTrackID == "" {
		st.SpotifyTrackID = vals[broker.KeyTrackID]
	}
	st.SpotifyAlbumID = vals[broker.KeySpotifyAlbumID]
	st.SpotifyArtistID = vals[broker.KeySpotifyArtistID]
}

// IsPlaying returns the cached play state from the last successful read.
func (s *Service) IsPlaying() bool {
	return s.lastPlaying
}

// CachedVolume returns the last-known volume, or -1.
func (s *Service) CachedVolume() int {
	return s.lastVolume
}

// getString reads one key, treating every failure as "no value".
func (s *Service) getString(ctx context.Context, key string) (string, bool) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, broker.ErrNil) {
			s.log.Debug("get", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return v, true
}

func (s *Service) setString(ctx context.Context, key, value string) bool {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.log.Warn("set", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// BLEStatus returns whether the phone link is up and the peer's name.
func (s *Service) BLEStatus(ctx context.Context) (connected bool, name string, ok bool) {
	vals, err := s.store.MGet(ctx, broker.KeyBLEConnected, broker.KeyBLEName)
	if err != nil {
		return false, "", false
	}
	connected, _ = vals.Bool(broker.KeyBLEConnected)
	return connected, vals[broker.KeyBLEName], true
}

// RequestBLEReconnect asks the bridge to re-establish the phone link.
func (s *Service) RequestBLEReconnect(ctx context.Context) bool {
	return s.setString(ctx, broker.KeyBLEReconnectRequest, "1")
}
