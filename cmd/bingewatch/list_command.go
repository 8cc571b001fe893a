package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bingewatch/internal/store"
)

type seriesView struct {
	Name          string `json:"name"`
	IMDBID        string `json:"imdb_id"`
	LastEpisode   string `json:"last_episode"`
	Score         int    `json:"score"`
	Snoozed       bool   `json:"snoozed"`
	LastWatchDate string `json:"last_watch_date,omitempty"`
}

func newSeriesView(s store.Series) seriesView {
	view := seriesView{
		Name:        s.Name,
		IMDBID:      s.IMDBID,
		LastEpisode: s.LastEpisode,
		Score:       s.Score,
		Snoozed:     s.Snoozed,
	}
	if !s.LastWatchDate.IsZero() {
		view.LastWatchDate = s.LastWatchDate.Format(time.DateOnly)
	}
	return view
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var includeSnoozed bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(db *store.Store) error {
				series, err := db.List(cmd.Context(), includeSnoozed)
				if err != nil {
					return err
				}

				if asJSON {
					views := make([]seriesView, 0, len(series))
					for _, s := range series {
						views = append(views, newSeriesView(s))
					}
					return writeJSON(cmd, views)
				}

				if len(series) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No series tracked")
					return nil
				}

				rows := make([][]string, 0, len(series))
				for _, s := range series {
					watched := ""
					if !s.LastWatchDate.IsZero() {
						watched = s.LastWatchDate.Format(time.DateOnly)
					}
					rows = append(rows, []string{
						s.Name,
						s.IMDBID,
						s.LastEpisode,
						strconv.Itoa(s.Score),
						yesNo(s.Snoozed),
						watched,
					})
				}
				headers := []string{"Name", "IMDb ID", "Last Episode", "Score", "Snoozed", "Last Watched"}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 4))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeSnoozed, "snoozed", false, "Include snoozed series")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
