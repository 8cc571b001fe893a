package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bingewatch/internal/store"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var lastEpisode string
	var score int
	var snooze bool
	var unsnooze bool

	cmd := &cobra.Command{
		Use:   "update <imdb-id>",
		Short: "Update a tracked series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imdbID := args[0]
			if snooze && unsnooze {
				return errors.New("--snooze and --unsnooze are mutually exclusive")
			}
			if lastEpisode == "" && score == 0 && !snooze && !unsnooze {
				return errors.New("nothing to update; pass --last-episode, --score, --snooze, or --unsnooze")
			}

			return ctx.withStore(func(db *store.Store) error {
				out := cmd.OutOrStdout()
				if lastEpisode != "" {
					if err := db.UpdateLastEpisode(cmd.Context(), imdbID, lastEpisode); err != nil {
						return err
					}
					fmt.Fprintf(out, "Updated last episode for %s\n", imdbID)
				}
				if score != 0 {
					if err := db.UpdateScore(cmd.Context(), imdbID, score); err != nil {
						return err
					}
					fmt.Fprintf(out, "Updated score for %s\n", imdbID)
				}
				if snooze || unsnooze {
					if err := db.SetSnoozed(cmd.Context(), imdbID, snooze); err != nil {
						return err
					}
					fmt.Fprintf(out, "Snoozed: %s\n", yesNo(snooze))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&lastEpisode, "last-episode", "", "Last watched episode, e.g. S02E05")
	cmd.Flags().IntVar(&score, "score", 0, "New score 1-10")
	cmd.Flags().BoolVar(&snooze, "snooze", false, "Pause checks for this series")
	cmd.Flags().BoolVar(&unsnooze, "unsnooze", false, "Resume checks for this series")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <imdb-id>",
		Short: "Stop tracking a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(db *store.Store) error {
				if err := db.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
