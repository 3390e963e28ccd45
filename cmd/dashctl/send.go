package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

func sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <action> [value...]",
		Short: "Push a command onto the playback queue",
		Long: `Push a command onto the playback queue.

Actions taking a value: seek <seconds>, volume <percent>, queue_shift <index>,
play_uri <uri>, play_episode <hash>, select_media_channel <channel>,
request_lyrics <artist> <track>, request_podcast_episodes <id> [offset] [limit],
request_recent_episodes [limit], check_connection <service>.
toggle_play, shuffle_toggle and repeat_cycle are resolved against the
current state first.`,
		Args: cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			c, err := buildCommand(media.Action(args[0]), args[1:])
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			switch c.Action {
			case media.ActionTogglePlay, media.ActionShuffleToggle, media.ActionRepeatCycle:
				if _, ok := a.svc.GetState(ctx); !ok {
					return errNoData
				}
			}
			if !a.svc.Send(ctx, c) {
				return fmt.Errorf("send %s: rejected or broker unavailable", c.Action)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.T().S().Success.Render("sent "+args[0]))
			return nil
		},
	}
}

// buildCommand maps CLI arguments onto a queue command.
func buildCommand(action media.Action, values []string) (media.Command, error) {
	arg := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	num := func(i, def int) (int, error) {
		if i >= len(values) {
			return def, nil
		}
		n, err := strconv.Atoi(values[i])
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", action, values[i])
		}
		return n, nil
	}
	need := func(n int) error {
		if len(values) < n {
			return fmt.Errorf("%s needs %d value(s)", action, n)
		}
		return nil
	}

	switch action {
	case media.ActionSeek, media.ActionVolume, media.ActionQueueShift:
		if err := need(1); err != nil {
			return media.Command{}, err
		}
		n, err := num(0, 0)
		if err != nil {
			return media.Command{}, err
		}
		switch action {
		case media.ActionSeek:
			return media.Seek(n), nil
		case media.ActionVolume:
			return media.Volume(n), nil
		default:
			return media.QueueShift(n), nil
		}
	case media.ActionPlayURI:
		return media.PlayURI(arg(0)), need(1)
	case media.ActionPlayEpisode:
		return media.PlayEpisode(arg(0)), need(1)
	case media.ActionSelectChannel:
		return media.SelectChannelCmd(arg(0)), need(1)
	case media.ActionCheckConnection:
		return media.CheckConnection(arg(0)), need(1)
	case media.ActionRequestLyrics:
		return media.RequestLyrics(arg(0), arg(1)), need(2)
	case media.ActionRequestRecent:
		limit, err := num(0, 10)
		return media.RequestRecentEpisodes(limit), err
	case media.ActionRequestEpisodes:
		if err := need(1); err != nil {
			return media.Command{}, err
		}
		offset, err := num(1, 0)
		if err != nil {
			return media.Command{}, err
		}
		limit, err := num(2, 20)
		return media.RequestEpisodes(arg(0), offset, limit), err
	case media.ActionLikeTrack, media.ActionUnlikeTrack:
		return media.Like(action == media.ActionLikeTrack, arg(0)), nil
	}

	if len(values) > 0 {
		return media.Command{}, fmt.Errorf("%s takes no value", action)
	}
	return media.Cmd(action), nil
}
