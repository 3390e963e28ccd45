package media

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

// Action names a playback-queue command.
type Action string

// Actions understood by the phone bridge.
const (
	ActionPlay                Action = "play"
	ActionPause               Action = "pause"
	ActionNext                Action = "next"
	ActionPrevious            Action = "previous"
	ActionSeek                Action = "seek"
	ActionVolume              Action = "volume"
	ActionShuffleOn           Action = "shuffle_on"
	ActionShuffleOff          Action = "shuffle_off"
	ActionRepeatOff           Action = "repeat_off"
	ActionRepeatTrack         Action = "repeat_track"
	ActionRepeatContext       Action = "repeat_context"
	ActionLikeTrack           Action = "like_track"
	ActionUnlikeTrack         Action = "unlike_track"
	ActionRequestSpotifyState Action = "request_spotify_state"
	ActionRequestPodcastList  Action = "request_podcast_list"
	ActionRequestRecent       Action = "request_recent_episodes"
	ActionRequestEpisodes     Action = "request_podcast_episodes"
	ActionPlayEpisode         Action = "play_episode"
	ActionRequestQueue        Action = "request_queue"
	ActionQueueShift          Action = "queue_shift"
	ActionSelectChannel       Action = "select_media_channel"
	ActionRequestChannels     Action = "request_media_channels"
	ActionLibraryOverview     Action = "library_overview"
	ActionLibraryRecent       Action = "library_recent"
	ActionLibraryLiked        Action = "library_liked"
	ActionLibraryAlbums       Action = "library_albums"
	ActionLibraryPlaylists    Action = "library_playlists"
	ActionLibraryArtists      Action = "library_artists"
	ActionPlayURI             Action = "play_uri"
	ActionRequestLyrics       Action = "request_lyrics"
	ActionCheckConnection     Action = "check_connection"
	ActionCheckAllConnections Action = "check_all_connections"

	// Pseudo-actions resolved against cached state before sending.
	ActionTogglePlay    Action = "toggle_play"
	ActionShuffleToggle Action = "shuffle_toggle"
	ActionRepeatCycle   Action = "repeat_cycle"
)

// Command is a single entry for the playback command queue.
type Command struct {
	Action Action
	Params map[string]any
}

// Cmd builds a parameterless command.
func Cmd(a Action) Command {
	return Command{Action: a}
}

func (c Command) with(key string, v any) Command {
	params := make(map[string]any, len(c.Params)+1)
	for k, val := range c.Params {
		params[k] = val
	}
	params[key] = v
	c.Params = params
	return c
}

// Seek builds a seek to an absolute position in seconds.
func Seek(seconds int) Command {
	return Cmd(ActionSeek).with("value", seconds)
}

// Volume builds a volume command, clamped to 0-100.
func Volume(percent int) Command {
	return Cmd(ActionVolume).with("value", max(0, min(100, percent)))
}

// Like builds a like or unlike command. An empty trackID targets the current track.
func Like(liked bool, trackID string) Command {
	c := Cmd(ActionUnlikeTrack)
	if liked {
		c = Cmd(ActionLikeTrack)
	}
	if trackID != "" {
		c = c.with("trackId", trackID)
	}
	return c
}

// Shuffle builds an explicit shuffle command.
func Shuffle(on bool) Command {
	if on {
		return Cmd(ActionShuffleOn)
	}
	return Cmd(ActionShuffleOff)
}

// Repeat builds an explicit repeat command.
func Repeat(m RepeatMode) Command {
	switch m {
	case RepeatTrack:
		return Cmd(ActionRepeatTrack)
	case RepeatContext:
		return Cmd(ActionRepeatContext)
	default:
		return Cmd(ActionRepeatOff)
	}
}

// RequestRecentEpisodes asks for the most recent episodes across podcasts.
func RequestRecentEpisodes(limit int) Command {
	return Cmd(ActionRequestRecent).with("limit", limit)
}

// RequestEpisodes asks for a page of a podcast's episodes.
func RequestEpisodes(podcastID string, offset, limit int) Command {
	return Cmd(ActionRequestEpisodes).
		with("podcastId", podcastID).
		with("offset", offset).
		with("limit", limit)
}

// PlayEpisode plays a podcast episode by its hash.
func PlayEpisode(episodeHash string) Command {
	return Cmd(ActionPlayEpisode).with("episodeHash", episodeHash)
}

// QueueShift skips ahead to the queue entry at index.
func QueueShift(index int) Command {
	return Cmd(ActionQueueShift).with("queueIndex", index)
}

// SelectChannelCmd selects the controlled media channel.
func SelectChannelCmd(channel string) Command {
	return Cmd(ActionSelectChannel).with("channel", channel)
}

// PlayURI plays a Spotify URI.
func PlayURI(uri string) Command {
	return Cmd(ActionPlayURI).with("uri", uri)
}

// RequestLyrics asks the phone to look up lyrics for a track.
func RequestLyrics(artist, track string) Command {
	return Cmd(ActionRequestLyrics).with("artist", artist).with("track", track)
}

// CheckConnection asks the phone to verify one service's connection.
func CheckConnection(service string) Command {
	return Cmd(ActionCheckConnection).with("service", service)
}

// Library builds a library listing request. after is an optional cursor.
func Library(a Action, offset, limit int, after string) Command {
	c := Cmd(a)
	if a == ActionLibraryOverview {
		return c
	}
	c = c.with("offset", offset).with("limit", limit)
	if after != "" {
		c = c.with("after", after)
	}
	return c
}

// validate rejects malformed parameters.
func (c Command) validate() error {
	str := func(key string) string {
		s, _ := c.Params[key].(string)
		return s
	}
	num := func(key string) int {
		n, _ := c.Params[key].(int)
		return n
	}

	switch c.Action {
	case "":
		return fmt.Errorf("%w: empty action", ErrInvalidArgument)
	case ActionSeek:
		if _, ok := c.Params["value"].(int); !ok || num("value") < 0 {
			return fmt.Errorf("%w: seek position", ErrInvalidArgument)
		}
	case ActionPlayEpisode:
		if str("episodeHash") == "" {
			return fmt.Errorf("%w: episode hash", ErrInvalidArgument)
		}
	case ActionRequestEpisodes:
		if str("podcastId") == "" || num("offset") < 0 || num("limit") <= 0 {
			return fmt.Errorf("%w: episode page", ErrInvalidArgument)
		}
	case ActionRequestRecent:
		if num("limit") <= 0 {
			return fmt.Errorf("%w: recent limit", ErrInvalidArgument)
		}
	case ActionQueueShift:
		if num("queueIndex") < 0 {
			return fmt.Errorf("%w: queue index", ErrInvalidArgument)
		}
	case ActionSelectChannel:
		if str("channel") == "" {
			return fmt.Errorf("%w: channel", ErrInvalidArgument)
		}
	case ActionPlayURI:
		if str("uri") == "" {
			return fmt.Errorf("%w: uri", ErrInvalidArgument)
		}
	case ActionRequestLyrics:
		if str("track") == "" {
			return fmt.Errorf("%w: lyrics track", ErrInvalidArgument)
		}
	}
	return nil
}

// Encode renders the command as the JSON object pushed to the queue.
func (c Command) Encode(unix int64) ([]byte, error) {
	obj := make(map[string]any, len(c.Params)+2)
	for k, v := range c.Params {
		obj[k] = v
	}
	obj["action"] = string(c.Action)
	obj["timestamp"] = unix
	return json.Marshal(obj)
}

// resolve maps pseudo-actions to concrete ones using the cached state.
func (s *Service) resolve(c Command) Command {
	switch c.Action {
	case ActionTogglePlay:
		if s.lastPlaying {
			return Cmd(ActionPause)
		}
		return Cmd(ActionPlay)
	case ActionShuffleToggle:
		return Shuffle(!s.lastShuffle)
	case ActionRepeatCycle:
		return Repeat(s.lastRepeat.Next())
	}
	return c
}

// remember updates the cached state after a command was accepted, so that
// consecutive toggles alternate before the next state read.
func (s *Service) remember(c Command) {
	switch c.Action {
	case ActionPlay:
		s.lastPlaying = true
	case ActionPause:
		s.lastPlaying = false
	case ActionShuffleOn:
		s.lastShuffle = true
	case ActionShuffleOff:
		s.lastShuffle = false
	case ActionRepeatOff:
		s.lastRepeat = RepeatOff
	case ActionRepeatTrack:
		s.lastRepeat = RepeatTrack
	case ActionRepeatContext:
		s.lastRepeat = RepeatContext
	case ActionVolume:
		if v, ok := c.Params["value"].(int); ok {
			s.lastVolume = v
		}
	}
}

// Send pushes a command to the playback queue. It reports success only when
// the broker acknowledged the push.
func (s *Service) Send(ctx context.Context, c Command) bool {
	c = s.resolve(c)
	if err := c.validate(); err != nil {
		s.log.Debug("rejected command", zap.String("action", string(c.Action)), zap.Error(err))
		return false
	}

	payload, err := c.Encode(s.now().Unix())
	if err != nil {
		s.log.Warn("encode command", zap.String("action", string(c.Action)), zap.Error(err))
		return false
	}

	if err := s.store.LPush(ctx, broker.KeyPlaybackCommandQ, string(payload)); err != nil {
		s.log.Warn("push command", zap.String("action", string(c.Action)), zap.Error(err))
		return false
	}
	s.remember(c)
	return true
}

// Convenience wrappers.

func (s *Service) Play(ctx context.Context) bool       { return s.Send(ctx, Cmd(ActionPlay)) }
func (s *Service) Pause(ctx context.Context) bool      { return s.Send(ctx, Cmd(ActionPause)) }
func (s *Service) TogglePlay(ctx context.Context) bool { return s.Send(ctx, Cmd(ActionTogglePlay)) }
func (s *Service) Next(ctx context.Context) bool       { return s.Send(ctx, Cmd(ActionNext)) }
func (s *Service) Previous(ctx context.Context) bool   { return s.Send(ctx, Cmd(ActionPrevious)) }

// SeekTo seeks to an absolute position in seconds. Negative positions are rejected.
func (s *Service) SeekTo(ctx context.Context, seconds int) bool {
	return s.Send(ctx, Seek(seconds))
}

// SetVolume sets the volume, clamped to 0-100.
func (s *Service) SetVolume(ctx context.Context, percent int) bool {
	return s.Send(ctx, Volume(percent))
}

// AdjustVolume changes the volume relative to the last-known value.
// It fails when the volume has never been observed.
func (s *Service) AdjustVolume(ctx context.Context, delta int) bool {
	if s.lastVolume < 0 {
		return false
	}
	return s.SetVolume(ctx, s.lastVolume+delta)
}

// ToggleShuffle flips the cached shuffle state.
func (s *Service) ToggleShuffle(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionShuffleToggle))
}

// CycleRepeat advances repeat off -> track -> context -> off.
func (s *Service) CycleRepeat(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionRepeatCycle))
}

// SetLiked likes or unlikes a track; an empty trackID targets the current one.
func (s *Service) SetLiked(ctx context.Context, liked bool, trackID string) bool {
	return s.Send(ctx, Like(liked, trackID))
}

// RequestSpotifyState asks the phone to refresh shuffle/repeat/liked mirrors.
func (s *Service) RequestSpotifyState(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionRequestSpotifyState))
}
