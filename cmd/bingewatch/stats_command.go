package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bingewatch/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show tracking and cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.videoCache()
			if err != nil {
				return err
			}

			return ctx.withStore(func(db *store.Store) error {
				stats, err := db.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Series")
				fmt.Fprintf(out, "  Tracked: %d\n", stats.Total)
				fmt.Fprintf(out, "  Active:  %d\n", stats.Active)
				fmt.Fprintf(out, "  Snoozed: %d\n", stats.Snoozed)
				if stats.Total > 0 {
					fmt.Fprintf(out, "  Average score: %.1f/10\n", stats.AverageScore)
				}
				if len(stats.TopRated) > 0 {
					fmt.Fprintln(out, "  Top rated:")
					for i, series := range stats.TopRated {
						note := ""
						if series.Snoozed {
							note = " (snoozed)"
						}
						fmt.Fprintf(out, "    %d. %s (%d/10)%s\n", i+1, series.Name, series.Score, note)
					}
				}
				if !stats.LastWatch.IsZero() {
					fmt.Fprintf(out, "  Last activity: %s\n", timeAgo(stats.LastWatch))
				}

				cacheStats := cache.Stats()
				fmt.Fprintln(out, "Video cache")
				fmt.Fprintf(out, "  Entries: %d\n", cacheStats.Entries)
				fmt.Fprintf(out, "  Videos:  %d\n", cacheStats.Videos)
				if cacheStats.StaleCount > 0 {
					fmt.Fprintf(out, "  Stale:   %d\n", cacheStats.StaleCount)
				}
				if !cacheStats.OldestCheck.IsZero() {
					fmt.Fprintf(out, "  Oldest check: %s\n", timeAgo(cacheStats.OldestCheck))
				}
				return nil
			})
		},
	}
}

func timeAgo(when time.Time) string {
	age := time.Since(when)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%d minute(s) ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%d hour(s) ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%d day(s) ago", int(age.Hours()/24))
	}
}
