package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/ui/styles"
)

func podcastsCommand() *cobra.Command {
	var episodesOf string
	cmd := &cobra.Command{
		Use:   "podcasts",
		Short: "List the podcasts cached on the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			s := styles.T().S()
			w := cmd.OutOrStdout()
			if episodesOf != "" {
				page, ok := a.svc.Episodes(ctx, episodesOf)
				if !ok {
					return errNoData
				}
				now := time.Now()
				fmt.Fprintln(w, s.Title.Render(fmt.Sprintf("%d / %d episodes", len(page.Episodes), page.TotalEpisodes)))
				for _, ep := range page.Episodes {
					fmt.Fprintf(w, "%s %s\n", s.Base.Render(ep.Title), s.Muted.Render("· "+ep.Age(now)))
				}
				return nil
			}

			channels, ok := a.svc.PodcastList(ctx)
			if !ok {
				return errNoData
			}
			for _, ch := range channels {
				fmt.Fprintf(w, "%s %s %s\n",
					s.Subtle.Render(ch.ID),
					s.Base.Render(ch.Title),
					s.Muted.Render(humanize.Comma(int64(ch.EpisodeCount))+" eps"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&episodesOf, "episodes", "", "list the cached episode page of this podcast id")
	return cmd
}

func queueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show the play queue cached on the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			q, ok := a.svc.Queue(ctx)
			if !ok {
				return errNoData
			}
			s := styles.T().S()
			w := cmd.OutOrStdout()
			if q.Service != "" {
				fmt.Fprintln(w, s.Muted.Render(q.Service))
			}
			if cur := q.CurrentlyPlaying; cur != nil {
				fmt.Fprintln(w, s.Playing.Render("▶ "+cur.Title+" · "+cur.Artist))
			}
			for i, t := range q.Tracks {
				fmt.Fprintf(w, "%2d. %s %s %s\n", i+1,
					s.Base.Render(t.Title),
					s.Muted.Render(t.Artist),
					s.Subtle.Render(formatClock(int(t.Duration/time.Second))))
			}
			return nil
		},
	}
}
