package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bingewatch/internal/store"
)

// similarNameThreshold is the token overlap above which an existing series
// counts as a likely duplicate when adding.
const similarNameThreshold = 0.6

func newAddCommand(ctx *commandContext) *cobra.Command {
	var score int
	var lastEpisode string

	cmd := &cobra.Command{
		Use:   "add <name> <imdb-id>",
		Short: "Track a new series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, imdbID := args[0], args[1]
			return ctx.withStore(func(db *store.Store) error {
				similar, err := db.FindSimilar(cmd.Context(), name, similarNameThreshold)
				if err != nil {
					return err
				}
				for _, s := range similar {
					fmt.Fprintf(cmd.OutOrStdout(), "Note: already tracking %q (%s)\n", s.Name, s.IMDBID)
				}

				added, err := db.Add(cmd.Context(), store.Series{
					Name:        name,
					IMDBID:      imdbID,
					Score:       score,
					LastEpisode: lastEpisode,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s), score %d, last watched %s\n",
					added.Name, added.IMDBID, added.Score, added.LastEpisode)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Initial score 1-10 (default 5)")
	cmd.Flags().StringVar(&lastEpisode, "last-episode", "", "Last watched episode, e.g. S02E05")
	return cmd
}
