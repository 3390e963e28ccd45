package broker

import "strings"

// Well-known broker keys. Each constant is both the logical name used by the
// SDK and the default key on the broker.
const (
	// Media
	KeyTrack             = "media:track"
	KeyArtist            = "media:artist"
	KeyAlbum             = "media:album"
	KeyPlaying           = "media:playing"
	KeyDuration          = "media:duration"
	KeyProgress          = "media:progress"
	KeyAlbumArtPath      = "media:album_art_path"
	KeyVolume            = "media:volume"
	KeyShuffleEnabled    = "media:shuffle_enabled"
	KeyRepeatMode        = "media:repeat_mode"
	KeyTrackLiked        = "media:track_liked"
	KeyTrackID           = "media:track_id"
	KeySpotifyTrackID    = "media:spotify_track_id"
	KeySpotifyAlbumID    = "media:spotify_album_id"
	KeySpotifyArtistID   = "media:spotify_artist_id"
	KeyChannels          = "media:channels"
	KeyControlledChannel = "media:controlled_channel"

	// System
	KeyBLEConnected        = "system:ble_connected"
	KeyBLEName             = "system:ble_name"
	KeyPlaybackCommandQ    = "system:playback_cmd_q"
	KeyBLEReconnectRequest = "system:ble_reconnect_request"
	KeyTimezoneOffset      = "system:timezone_offset"
	KeyTimezoneID          = "system:timezone_id"

	// Podcasts
	KeyPodcastList               = "podcast:list"
	KeyPodcastRecentEpisodes     = "podcast:recent_episodes"
	KeyPodcastEpisodesPrefix     = "podcast:episodes:"
	KeyPodcastCount              = "podcast:count"
	KeyPodcastLibrary            = "podcast:library"
	KeyPodcastShowName           = "podcast:show_name"
	KeyPodcastEpisodeTitle       = "podcast:episode_title"
	KeyPodcastEpisodeDescription = "podcast:episode_description"
	KeyPodcastEpisodeList        = "podcast:episode_list"
	KeyPodcastEpisodeCount       = "podcast:episode_count"
	KeyPodcastAuthor             = "podcast:author"
	KeyPodcastArtPath            = "podcast:art_path"

	// Lyrics
	KeyLyricsEnabled = "lyrics:enabled"
	KeyLyricsData    = "lyrics:data"
	KeyLyricsHash    = "lyrics:hash"
	KeyLyricsSynced  = "lyrics:synced"

	// Spotify library and mode mirrors
	KeyLibraryOverview  = "spotify:library:overview"
	KeyLibraryRecent    = "spotify:library:recent"
	KeyLibraryLiked     = "spotify:library:liked"
	KeyLibraryAlbums    = "spotify:library:albums"
	KeyLibraryPlaylists = "spotify:library:playlists"
	KeyLibraryArtists   = "spotify:library:artists"
	KeySpotifyShuffle   = "spotify:shuffle"
	KeySpotifyRepeat    = "spotify:repeat"
	KeySpotifyLiked     = "spotify:liked"

	// Queue
	KeyQueueData = "queue:data"

	// Connections
	KeyConnectionsSpotify   = "connections:spotify"
	KeyConnectionsTimestamp = "connections:timestamp"
	KeyConnectionsResponse  = "connections:response"

	// Album art
	KeyAlbumArtRequest = "mediadash:albumart:request"
)

// PodcastEpisodesKey returns the response key for a podcast's episode page.
func PodcastEpisodesKey(podcastID string) string {
	return KeyPodcastEpisodesPrefix + podcastID
}

// KeyMap redirects logical key names to broker keys. Names without an
// override resolve to themselves.
type KeyMap struct {
	overrides map[string]string
}

// NewKeyMap creates a key map from overrides (logical name -> broker key).
// Empty values are ignored.
func NewKeyMap(overrides map[string]string) KeyMap {
	km := KeyMap{overrides: make(map[string]string, len(overrides))}
	for name, key := range overrides {
		if key = strings.TrimSpace(key); key != "" {
			km.overrides[name] = key
		}
	}
	return km
}

// Resolve returns the broker key for a logical name.
func (m KeyMap) Resolve(name string) string {
	if key, ok := m.overrides[name]; ok {
		return key
	}
	// Dynamic podcast episode keys follow their prefix override.
	if prefix, ok := m.overrides[KeyPodcastEpisodesPrefix]; ok &&
		strings.HasPrefix(name, KeyPodcastEpisodesPrefix) {
		return prefix + strings.TrimPrefix(name, KeyPodcastEpisodesPrefix)
	}
	return name
}
