package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/lrclib"
	"github.com/llehouerou/mediadash/internal/lyrics"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

func lyricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyrics",
		Short: "Show, import or toggle lyrics",
	}
	cmd.AddCommand(lyricsShowCommand())
	cmd.AddCommand(lyricsImportCommand())
	cmd.AddCommand(lyricsFetchCommand())
	cmd.AddCommand(lyricsToggleCommand("on", true))
	cmd.AddCommand(lyricsToggleCommand("off", false))
	return cmd
}

func lyricsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the lyrics currently published on the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			l, ok := a.svc.GetLyrics(ctx)
			if !ok || !l.HasLines() {
				return errNoData
			}
			s := styles.T().S()
			w := cmd.OutOrStdout()
			mode := "unsynced"
			if l.IsSynced() {
				mode = "synced"
			}
			fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("hash %s · %s · %d lines", l.Hash, mode, len(l.Lines))))
			for _, line := range l.Lines {
				if l.IsSynced() {
					fmt.Fprintln(w, s.Subtle.Render(formatStamp(line.Time))+" "+s.Base.Render(line.Text))
					continue
				}
				fmt.Fprintln(w, s.Base.Render(line.Text))
			}
			return nil
		},
	}
}

func lyricsImportCommand() *cobra.Command {
	var artist, title, hash string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Publish an LRC or JSON lyrics file",
		Long: `Publish an LRC or JSON lyrics file under the lyrics keys.

An audio file may be given instead; its sibling .lrc file is used. The hash
defaults to the art hash of the artist and title, taken from the flags or
from the file's [ar:] and [ti:] tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			path := args[0]
			switch strings.ToLower(filepath.Ext(path)) {
			case ".lrc", ".json", ".txt":
			default:
				path = lyrics.LRCPathFor(path)
			}

			l, err := lyrics.LoadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if !l.HasLines() {
				return fmt.Errorf("%s: no lyric lines", path)
			}
			if artist != "" {
				l.Artist = artist
			}
			if title != "" {
				l.Title = title
			}
			switch {
			case hash != "":
				l.Hash = hash
			case l.Hash == "":
				if l.Artist == "" && l.Title == "" {
					return fmt.Errorf("%s: no artist or title, pass --hash", path)
				}
				l.Hash = media.ArtHash(l.Artist, l.Title)
			}

			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()
			if !a.svc.StoreLyrics(ctx, l) {
				return fmt.Errorf("store lyrics: broker unavailable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.T().S().Success.Render(
				fmt.Sprintf("stored %d lines as %s", len(l.Lines), l.Hash)))
			return nil
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&title, "title", "", "track title")
	cmd.Flags().StringVar(&hash, "hash", "", "explicit lyrics hash")
	return cmd
}

func lyricsFetchCommand() *cobra.Command {
	var artist, title, baseURL string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Look up lyrics on lrclib.net and publish them",
		Long: `Look up lyrics on lrclib.net and publish them under the lyrics keys.

Without --artist and --title the track currently playing is used, and its
duration narrows the match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)

			var duration time.Duration
			if artist == "" || title == "" {
				ctx, cancel := withTimeout(cmd.Context(), a.timeout)
				st, ok := a.svc.GetState(ctx)
				cancel()
				if !ok || !st.HasTrack() {
					return errNoData
				}
				artist, title = st.Artist, st.Track
				duration = time.Duration(st.Duration) * time.Second
			}

			res, err := lrclib.New(baseURL, a.log).Get(cmd.Context(), artist, title, duration)
			if err != nil {
				return fmt.Errorf("lrclib %s - %s: %w", artist, title, err)
			}
			l, err := res.Lyrics()
			if err != nil {
				return fmt.Errorf("lrclib %s - %s: %w", artist, title, err)
			}
			l.Hash = media.ArtHash(artist, title)

			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()
			if !a.svc.StoreLyrics(ctx, l) {
				return fmt.Errorf("store lyrics: broker unavailable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.T().S().Success.Render(
				fmt.Sprintf("stored %d lines for %s - %s", len(l.Lines), artist, title)))
			return nil
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&title, "title", "", "track title")
	cmd.Flags().StringVar(&baseURL, "lrclib-url", lrclib.DefaultBaseURL, "lrclib API base URL")
	return cmd
}

func lyricsToggleCommand(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Turn lyrics " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()
			if !a.svc.SetLyricsEnabled(ctx, enabled) {
				return fmt.Errorf("lyrics %s: broker unavailable", use)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "lyrics "+use)
			return nil
		},
	}
}

func formatStamp(d time.Duration) string {
	cs := d.Milliseconds() / 10
	return fmt.Sprintf("[%02d:%02d.%02d]", cs/6000, cs/100%60, cs%100)
}
