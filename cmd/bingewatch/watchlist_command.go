package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bingewatch/internal/store"
	"bingewatch/internal/watchlist"
)

type watchlistView struct {
	Rank    int    `json:"rank"`
	Series  string `json:"series"`
	IMDBID  string `json:"imdb_id"`
	Episode string `json:"episode"`
	Title   string `json:"title,omitempty"`
	AirDate string `json:"air_date,omitempty"`
	Score   int    `json:"score"`
}

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	var top int
	var minScore int
	var next bool
	var includeSnoozed bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show unwatched episodes in priority order",
		Long: "Watchlist scrapes the episode listing for each tracked series and ranks\n" +
			"every unwatched episode by series score, highest first, then episode order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := watchlist.Options{
				IncludeSnoozed: includeSnoozed,
				MinScore:       minScore,
				Limit:          top,
			}
			if next {
				opts.Limit = 1
			}

			episodes, err := ctx.episodeSource()
			if err != nil {
				return err
			}
			return ctx.withStore(func(db *store.Store) error {
				ranker := watchlist.NewRanker(db, episodes, ctx.ensureLogger())
				entries, err := ranker.Build(cmd.Context(), opts)
				if err != nil {
					return err
				}

				if asJSON {
					views := make([]watchlistView, 0, len(entries))
					for _, e := range entries {
						views = append(views, watchlistView{
							Rank:    e.Rank,
							Series:  e.SeriesName,
							IMDBID:  e.IMDBID,
							Episode: e.Code().String(),
							Title:   e.Episode.Title,
							AirDate: e.Episode.AirDate,
							Score:   e.Score,
						})
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Nothing to watch")
					return nil
				}
				if next {
					e := entries[0]
					fmt.Fprintf(out, "Up next: %s %s", e.SeriesName, e.Code())
					if e.Episode.Title != "" {
						fmt.Fprintf(out, " %q", e.Episode.Title)
					}
					fmt.Fprintln(out)
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.Itoa(e.Rank),
						e.SeriesName,
						e.Code().String(),
						e.Episode.Title,
						strconv.Itoa(e.Score),
						e.Episode.AirDate,
					})
				}
				headers := []string{"#", "Series", "Episode", "Title", "Score", "Aired"}
				fmt.Fprintln(out, renderTable(headers, rows, 0, 4))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Show at most this many episodes")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Only rank series scored at least this high")
	cmd.Flags().BoolVar(&next, "next", false, "Show only the single highest-priority episode")
	cmd.Flags().BoolVar(&includeSnoozed, "snoozed", false, "Include snoozed series")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
