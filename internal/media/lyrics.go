package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/lyrics"
)

// LyricsEnabled reports whether the user turned lyrics on. A missing key
// reads as disabled.
func (s *Service) LyricsEnabled(ctx context.Context) bool {
	raw, ok := s.getString(ctx, broker.KeyLyricsEnabled)
	if !ok {
		return false
	}
	v, _ := broker.ParseBool(raw)
	return v
}

// SetLyricsEnabled persists the lyrics toggle.
func (s *Service) SetLyricsEnabled(ctx context.Context, enabled bool) bool {
	v := "false"
	if enabled {
		v = "true"
	}
	return s.setString(ctx, broker.KeyLyricsEnabled, v)
}

// LyricsHash returns the hash of the lyrics currently published.
func (s *Service) LyricsHash(ctx context.Context) (string, bool) {
	h, ok := s.getString(ctx, broker.KeyLyricsHash)
	return h, ok && h != ""
}

// GetLyrics reads and parses the published lyrics. A payload without a hash
// takes the one stored alongside it.
func (s *Service) GetLyrics(ctx context.Context) (*lyrics.Lyrics, bool) {
	vals, err := s.store.MGet(ctx, broker.KeyLyricsData, broker.KeyLyricsHash)
	if err != nil {
		return nil, false
	}
	raw := vals[broker.KeyLyricsData]
	if raw == "" {
		return nil, false
	}
	l, err := lyrics.ParseJSON([]byte(raw))
	if err != nil {
		s.log.Warn("parse lyrics", zap.Int("bytes", len(raw)), zap.Error(err))
		return nil, false
	}
	if l.Hash == "" {
		l.Hash = vals[broker.KeyLyricsHash]
	}
	return l, true
}

// StoreLyrics publishes lyrics under the data, hash and synced keys.
func (s *Service) StoreLyrics(ctx context.Context, l *lyrics.Lyrics) bool {
	if l == nil {
		return false
	}
	data, err := l.MarshalJSON()
	if err != nil {
		s.log.Warn("encode lyrics", zap.Error(err))
		return false
	}
	return s.setString(ctx, broker.KeyLyricsData, string(data)) &&
		s.setString(ctx, broker.KeyLyricsHash, l.Hash) &&
		s.setString(ctx, broker.KeyLyricsSynced, l.SyncedFlag())
}

// RequestLyrics asks the phone to look up lyrics for a track.
func (s *Service) RequestLyrics(ctx context.Context, artist, track string) bool {
	return s.Send(ctx, RequestLyrics(artist, track))
}
