package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mediadash/internal/media"
)

func arthashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arthash <artist> <album>",
		Short: "Print the album-art cache key for an artist and album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), media.ArtHash(args[0], args[1]))
			return nil
		},
	}
}
