package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/albumart"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/ui/kittyimg"
)

func artCommand() *cobra.Command {
	var (
		cols, rows int
		pathOnly   bool
	)
	cmd := &cobra.Command{
		Use:   "art",
		Short: "Show the current track's cover in a Kitty-compatible terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), a.timeout)
			defer cancel()

			st, ok := a.svc.GetState(ctx)
			if !ok || !st.HasTrack() {
				return errNoData
			}
			path, found := findArt(a.cfg.ArtCacheDir(), st)

			w := cmd.OutOrStdout()
			if pathOnly {
				if !found {
					return fmt.Errorf("no cover for %s - %s", st.Artist, st.Album)
				}
				fmt.Fprintln(w, path)
				return nil
			}
			if !found {
				fmt.Fprintln(w, kittyimg.Placeholder(cols, rows))
				return nil
			}
			img, err := albumart.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, kittyimg.Encode(img, cols, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 24, "width in terminal cells")
	cmd.Flags().IntVar(&rows, "rows", 12, "height in terminal cells")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "print the cover's file path instead")
	return cmd
}

// findArt resolves the published path first, then the cache entry for the
// track's art hash.
func findArt(cacheDir string, st media.State) (string, bool) {
	if st.AlbumArtPath != "" {
		if _, err := os.Stat(st.AlbumArtPath); err == nil {
			return st.AlbumArtPath, true
		}
	}
	cache, err := albumart.NewCache(cacheDir, nil)
	if err != nil {
		return "", false
	}
	return cache.Lookup(media.ArtHash(st.Artist, st.Album))
}
