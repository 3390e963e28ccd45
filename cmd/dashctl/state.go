package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

func stateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the phone's playback state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			st, ok := a.svc.GetState(ctx)
			if !ok {
				return errNoData
			}
			connected, device, bleOK := a.svc.BLEStatus(ctx)
			writeState(cmd.OutOrStdout(), st, phoneLine(connected, device, bleOK))
			return nil
		},
	}
}

func phoneLine(connected bool, device string, ok bool) string {
	s := styles.T().S()
	switch {
	case !ok:
		return s.Subtle.Render("unknown")
	case !connected:
		return s.Error.Render("disconnected")
	case device != "":
		return s.Success.Render("connected") + s.Muted.Render(" ("+device+")")
	default:
		return s.Success.Render("connected")
	}
}

func writeState(w io.Writer, st media.State, phone string) {
	t := styles.T()
	s := t.S()

	var b strings.Builder
	if st.HasTrack() {
		b.WriteString(styles.Gradient(st.Track, s.Title, t.Primary, t.Secondary))
	} else {
		b.WriteString(s.Muted.Render("Nothing playing"))
	}
	b.WriteString("\n\n")

	playing := s.Muted.Render("paused")
	if st.IsPlaying {
		playing = s.Playing.Render("playing")
	}

	fields := []string{
		styles.Field("Artist", orDash(st.Artist)),
		styles.Field("Album", orDash(st.Album)),
		styles.Field("Position", formatClock(st.Position)+" / "+formatClock(st.Duration)),
		styles.Field("State", playing),
		styles.Field("Volume", formatVolume(st.Volume)),
		styles.Field("Shuffle", onOff(st.ShuffleEnabled)),
		styles.Field("Repeat", st.Repeat.String()),
		styles.Field("Liked", onOff(st.IsLiked)),
		styles.Field("Phone", phone),
	}
	if st.AlbumArtPath != "" {
		fields = append(fields, styles.Field("Art", st.AlbumArtPath))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, fields...))

	fmt.Fprintln(w, styles.Panel(st.IsPlaying).Render(b.String()))
}

func formatClock(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatVolume(v int) string {
	if v < 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d%%", v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
