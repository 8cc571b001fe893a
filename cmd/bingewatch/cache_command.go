package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bingewatch/internal/media"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the seen-video cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

const cacheStampLayout = "2006-01-02 15:04"

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.videoCache()
			if err != nil {
				return err
			}
			entries := cache.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				checked := "never"
				if !entry.LastChecked.IsZero() {
					checked = entry.LastChecked.Local().Format(cacheStampLayout)
				}
				rows = append(rows, []string{
					entry.Key,
					strconv.Itoa(len(entry.VideoIDs)),
					strconv.Itoa(entry.NewCount),
					checked,
				})
			}
			headers := []string{"Key", "Videos", "Reported", "Last Checked"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 2, 3))
			return nil
		},
	}
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.videoCache()
			if err != nil {
				return err
			}
			stats := cache.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Videos:  %d\n", stats.Videos)
			fmt.Fprintf(out, "Stale:   %d\n", stats.StaleCount)
			fmt.Fprintf(out, "Path:    %s\n", stats.Path)
			if stats.MemoryOnly {
				fmt.Fprintln(out, "Warning: cache is running in memory only; results will not persist")
			}
			if !stats.OldestCheck.IsZero() {
				fmt.Fprintf(out, "Oldest:  %s\n", stats.OldestCheck.Local().Format(cacheStampLayout))
			}
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove stale cache entries now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.videoCache()
			if err != nil {
				return err
			}
			removed := cache.Prune()
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stale cache entries")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", removed)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var episodeCode string

	cmd := &cobra.Command{
		Use:   "clear [series]",
		Short: "Forget seen videos for a series, an episode, or everything",
		Long: "Cleared videos will be reported as new again on the next check.\n" +
			"Without arguments the whole cache is cleared.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.videoCache()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if episodeCode != "" {
					return fmt.Errorf("--episode requires a series argument")
				}
				cache.Clear()
				fmt.Fprintln(out, "Cache cleared")
				return nil
			}

			subject := args[0]
			if episodeCode != "" {
				code, err := media.ParseEpisodeCode(episodeCode)
				if err != nil {
					return err
				}
				if cache.ClearKey(subject, code.String()) {
					fmt.Fprintf(out, "Cleared %s %s\n", subject, code)
				} else {
					fmt.Fprintf(out, "No cache entry for %s %s\n", subject, code)
				}
				return nil
			}

			removed := cache.ClearSubject(subject)
			fmt.Fprintf(out, "Cleared %d entries for %s\n", removed, subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&episodeCode, "episode", "", "Clear a single episode entry, e.g. S02E05")
	return cmd
}
