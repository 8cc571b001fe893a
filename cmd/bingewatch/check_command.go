package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bingewatch/internal/media"
	"bingewatch/internal/notifications"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var includeSnoozed bool
	var maxEpisodes int
	var minScore int

	cmd := &cobra.Command{
		Use:   "check [imdb-id]",
		Short: "Check tracked series for new videos",
		Long: "Check scrapes the episode listing for each tracked series, searches for\n" +
			"related videos, and reports only videos never seen in a previous run.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if maxEpisodes == 0 {
				maxEpisodes = cfg.Notifications.MaxEpisodesPerSeries
			}
			opts := notifications.CheckOptions{
				IncludeSnoozed: includeSnoozed,
				MaxEpisodes:    maxEpisodes,
				MinScore:       minScore,
			}

			return ctx.withChecker(func(checker *notifications.Checker) error {
				var results []media.Notification
				var checkErr error
				if len(args) == 1 {
					results, checkErr = checker.CheckSeries(cmd.Context(), args[0], opts)
				} else {
					results, checkErr = checker.CheckAll(cmd.Context(), opts)
				}
				if checkErr != nil {
					return checkErr
				}
				printNotifications(cmd, results)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeSnoozed, "snoozed", false, "Also check snoozed series")
	cmd.Flags().IntVar(&maxEpisodes, "max-episodes", 0, "Episodes checked per series (default from config)")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Only check series scored at least this high")
	return cmd
}

func printNotifications(cmd *cobra.Command, results []media.Notification) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "Nothing new")
		return
	}
	for _, n := range results {
		if n.Context == media.GeneralContext {
			fmt.Fprintf(out, "%s: %d new video(s)\n", n.Subject, n.Count())
		} else {
			fmt.Fprintf(out, "%s %s: %d new video(s)\n", n.Subject, n.Context, n.Count())
		}
		for _, v := range n.NewVideos {
			fmt.Fprintf(out, "  %s\n  %s\n", v.Title, v.URL())
		}
	}
}
