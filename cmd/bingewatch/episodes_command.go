package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bingewatch/internal/media"
	"bingewatch/internal/store"
)

// resolveSeries accepts either an IMDb id or a tracked series name.
func resolveSeries(ctx context.Context, db *store.Store, arg string) (store.Series, error) {
	if err := store.ValidateIMDBID(arg); err == nil {
		return db.GetByIMDBID(ctx, arg)
	}
	return db.GetByName(ctx, arg)
}

type episodeView struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	AirDate string `json:"air_date,omitempty"`
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var onlyNew bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "episodes <series>",
		Short: "List episodes scraped from the series' IMDb listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := ctx.episodeSource()
			if err != nil {
				return err
			}

			return ctx.withStore(func(db *store.Store) error {
				series, err := resolveSeries(cmd.Context(), db, args[0])
				if err != nil {
					return err
				}

				var episodes []media.Episode
				if onlyNew {
					episodes, err = source.NewEpisodes(cmd.Context(), series.IMDBID, series.LastEpisode)
				} else {
					episodes, err = source.Episodes(cmd.Context(), series.IMDBID)
				}
				if err != nil {
					return err
				}

				if asJSON {
					views := make([]episodeView, 0, len(episodes))
					for _, e := range episodes {
						views = append(views, episodeView{
							Code:    e.Code().String(),
							Title:   e.Title,
							AirDate: e.AirDate,
						})
					}
					return writeJSON(cmd, views)
				}

				if len(episodes) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No episodes found for %s\n", series.Name)
					return nil
				}

				rows := make([][]string, 0, len(episodes))
				for _, e := range episodes {
					rows = append(rows, []string{
						e.Code().String(),
						e.Title,
						e.AirDate,
						strconv.Itoa(e.Season),
						strconv.Itoa(e.Episode),
					})
				}
				headers := []string{"Code", "Title", "Air Date", "Season", "Episode"}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 4, 5))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&onlyNew, "new", false, "Only episodes newer than the last watched marker")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
