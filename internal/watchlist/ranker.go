package watchlist

import (
	"context"
	"log/slog"
	"sort"

	"bingewatch/internal/logging"
	"bingewatch/internal/media"
	"bingewatch/internal/store"
)

// EpisodeSource finds episodes newer than a last-watched marker.
type EpisodeSource interface {
	NewEpisodes(ctx context.Context, imdbID, lastKnown string) ([]media.Episode, error)
}

// SeriesStore is the slice of the record store the ranker needs.
type SeriesStore interface {
	List(ctx context.Context, includeSnoozed bool) ([]store.Series, error)
}

// Entry is one unwatched episode enriched with its series metadata, so a
// ranked list can be displayed without further lookups.
type Entry struct {
	SeriesName string
	IMDBID     string
	Score      int
	Episode    media.Episode
	Rank       int
}

// Code returns the entry's canonical episode code.
func (e Entry) Code() media.EpisodeCode {
	return e.Episode.Code()
}

// Options filters and bounds a ranked watchlist.
type Options struct {
	IncludeSnoozed bool
	MinScore       int
	Limit          int
}

// Ranker orders unwatched episodes across every tracked series.
type Ranker struct {
	series   SeriesStore
	episodes EpisodeSource
	logger   *slog.Logger
}

// NewRanker builds a ranker over the given store and episode source.
func NewRanker(series SeriesStore, episodes EpisodeSource, logger *slog.Logger) *Ranker {
	return &Ranker{
		series:   series,
		episodes: episodes,
		logger:   logging.NewComponentLogger(logger, "watchlist"),
	}
}

// Build returns all unwatched episodes ranked by series score descending,
// then episode order ascending, so a high-score series is watched first
// and in order. A series whose episode check fails is logged and skipped;
// one failure never empties the whole list. Rank numbers are assigned
// before the limit is applied, so a truncated list keeps its positions.
func (r *Ranker) Build(ctx context.Context, opts Options) ([]Entry, error) {
	seriesList, err := r.series.List(ctx, opts.IncludeSnoozed)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, series := range seriesList {
		if opts.MinScore > 0 && series.Score < opts.MinScore {
			continue
		}
		fresh, err := r.episodes.NewEpisodes(ctx, series.IMDBID, series.LastEpisode)
		if err != nil {
			r.logger.WarnContext(ctx, "episode check failed",
				logging.String(logging.FieldSeriesID, series.IMDBID),
				logging.Error(err))
			continue
		}
		for _, episode := range fresh {
			entries = append(entries, Entry{
				SeriesName: series.Name,
				IMDBID:     series.IMDBID,
				Score:      series.Score,
				Episode:    episode,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Code().Before(entries[j].Code())
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// Next returns the single highest-priority episode to watch, if any.
func (r *Ranker) Next(ctx context.Context, opts Options) (Entry, bool, error) {
	opts.Limit = 1
	entries, err := r.Build(ctx, opts)
	if err != nil {
		return Entry{}, false, err
	}
	if len(entries) == 0 {
		return Entry{}, false, nil
	}
	return entries[0], true, nil
}
