package main

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

func watchCommand() *cobra.Command {
	var (
		interval time.Duration
		position bool
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print playback changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			bus := playback.NewBus(a.svc, a.log)

			types := []playback.EventType{
				playback.EventTrackChanged,
				playback.EventPlaystateChanged,
				playback.EventVolumeChanged,
				playback.EventAlbumArtChanged,
				playback.EventConnectionChanged,
			}
			if position {
				types = append(types, playback.EventPositionChanged)
			}
			subs := make([]*playback.ChannelSubscription, 0, len(types))
			for _, t := range types {
				sub, err := bus.SubscribeChannel(t)
				if err != nil {
					return err
				}
				subs = append(subs, sub)
			}
			defer func() {
				for _, sub := range subs {
					bus.Unsubscribe(sub.ID)
				}
			}()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			printed := 0
			for {
				ctx, cancel := withTimeout(cmd.Context(), a.timeout)
				bus.Poll(ctx)
				cancel()

				for _, e := range drain(subs) {
					writeEvent(cmd.OutOrStdout(), e)
					printed++
					if count > 0 && printed >= count {
						return nil
					}
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "poll interval")
	cmd.Flags().BoolVar(&position, "position", false, "include position updates")
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many events (0: run until interrupted)")
	return cmd
}

// drain collects whatever the last poll delivered, in subscription order.
func drain(subs []*playback.ChannelSubscription) []playback.Event {
	var out []playback.Event
	for _, sub := range subs {
		for pending := true; pending; {
			select {
			case e := <-sub.Events:
				out = append(out, e)
			default:
				pending = false
			}
		}
	}
	return out
}

func writeEvent(w io.Writer, e playback.Event) {
	s := styles.T().S()
	st := e.State

	var detail string
	switch e.Type {
	case playback.EventTrackChanged:
		detail = st.Track + " · " + st.Artist
	case playback.EventPlaystateChanged:
		detail = lo.Ternary(st.IsPlaying, "playing", "paused")
	case playback.EventVolumeChanged:
		detail = formatVolume(st.Volume)
	case playback.EventPositionChanged:
		detail = formatClock(st.Position) + " / " + formatClock(st.Duration)
	case playback.EventAlbumArtChanged:
		detail = orDash(st.AlbumArtPath)
	case playback.EventConnectionChanged:
		detail = lo.Ternary(e.Connected, "connected", "disconnected")
		if e.DeviceName != "" {
			detail += " (" + e.DeviceName + ")"
		}
	}

	kind := e.Type.String()
	if e.Initial {
		kind += "*"
	}
	fmt.Fprintf(w, "%s %s %s\n",
		s.Subtle.Render(time.Now().Format("15:04:05")),
		s.Label.Render(kind),
		s.Base.Render(detail))
}
