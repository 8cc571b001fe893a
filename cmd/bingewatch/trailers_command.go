package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bingewatch/internal/media"
	"bingewatch/internal/store"
)

func newTrailersCommand(ctx *commandContext) *cobra.Command {
	var episodeCode string

	cmd := &cobra.Command{
		Use:   "trailers <series>",
		Short: "Search for trailers and clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := ctx.videoSource()
			if err != nil {
				return err
			}

			return ctx.withStore(func(db *store.Store) error {
				name := args[0]
				if series, err := resolveSeries(cmd.Context(), db, name); err == nil {
					name = series.Name
				}

				var videos []media.Video
				if code := strings.TrimSpace(episodeCode); code != "" {
					parsed, err := media.ParseEpisodeCode(code)
					if err != nil {
						return err
					}
					videos, err = source.SearchEpisode(cmd.Context(), name, parsed.String(), "")
					if err != nil {
						return err
					}
				} else {
					videos, err = source.SearchSeries(cmd.Context(), name)
					if err != nil {
						return err
					}
				}

				if len(videos) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No videos found for %s\n", name)
					return nil
				}
				printVideos(cmd, videos)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&episodeCode, "episode", "", "Restrict the search to one episode, e.g. S02E05")
	return cmd
}

func printVideos(cmd *cobra.Command, videos []media.Video) {
	out := cmd.OutOrStdout()
	for _, v := range videos {
		fmt.Fprintf(out, "%s (%s)\n", v.Title, v.Channel)
		if v.Duration != "" {
			fmt.Fprintf(out, "  %s\n", v.Duration)
		}
		fmt.Fprintf(out, "  %s\n", v.URL())
	}
}
