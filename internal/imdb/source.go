package imdb

import (
	"context"
	"fmt"
	"log/slog"

	"bingewatch/internal/config"
	"bingewatch/internal/logging"
	"bingewatch/internal/media"
)

// Fetcher retrieves a page body for a URL. Satisfied by *fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Source discovers episodes for a series by scanning its season pages.
type Source struct {
	client          Fetcher
	baseURL         string
	maxEmptySeasons int
	maxSeasons      int
	logger          *slog.Logger
}

// NewSource constructs an episode source over the given fetcher.
func NewSource(client Fetcher, cfg config.IMDB, logger *slog.Logger) *Source {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxEmpty := cfg.MaxEmptySeasons
	if maxEmpty < 1 {
		maxEmpty = 2
	}
	maxSeasons := cfg.MaxSeasons
	if maxSeasons < 1 {
		maxSeasons = 100
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.imdb.com"
	}
	return &Source{
		client:          client,
		baseURL:         baseURL,
		maxEmptySeasons: maxEmpty,
		maxSeasons:      maxSeasons,
		logger:          logging.NewComponentLogger(logger, "imdb"),
	}
}

func (s *Source) seasonURL(imdbID string, season int) string {
	return fmt.Sprintf("%s/title/%s/episodes?season=%d", s.baseURL, imdbID, season)
}

// Episodes returns every episode discovered for the series, sorted by
// (season, episode). Season pages are scanned from season 1 until the
// configured number of consecutive empty seasons is seen; one empty season
// alone is tolerated as a gap. A fetch failure on the first season means
// the id is unresolvable and yields an empty result; a failure on a later
// season ends the scan but keeps what was already collected.
func (s *Source) Episodes(ctx context.Context, imdbID string) ([]media.Episode, error) {
	var all []media.Episode
	emptySeasons := 0

	s.logger.InfoContext(ctx, "fetching episodes", logging.String(logging.FieldSeriesID, imdbID))

	for season := 1; season <= s.maxSeasons && emptySeasons < s.maxEmptySeasons; season++ {
		url := s.seasonURL(imdbID, season)
		body, err := s.client.Fetch(ctx, url)
		if err != nil {
			s.logger.WarnContext(ctx, "season fetch failed",
				logging.String(logging.FieldSeriesID, imdbID),
				logging.Int(logging.FieldSeason, season),
				logging.Error(err))
			if len(all) == 0 && season == 1 {
				return nil, nil
			}
			break
		}

		parsed := parseSeasonPage(body, season)
		if len(parsed) == 0 {
			emptySeasons++
			continue
		}
		emptySeasons = 0
		s.logger.DebugContext(ctx, "season parsed",
			logging.Int(logging.FieldSeason, season),
			logging.Int("episodes", len(parsed)))

		for _, entry := range parsed {
			title := entry.Title
			if title == "" {
				title = "Unknown"
			}
			all = append(all, media.Episode{
				SeriesID: imdbID,
				Season:   entry.Season,
				Episode:  entry.Episode,
				Title:    title,
				AirDate:  entry.AirDate,
			})
		}
	}

	media.SortEpisodes(all)
	s.logger.InfoContext(ctx, "episodes collected",
		logging.String(logging.FieldSeriesID, imdbID),
		logging.Int("count", len(all)))
	return all, nil
}

// NewEpisodes returns the episodes strictly after lastKnown, in ascending
// order. The sentinel "S00E00" means never watched, so everything counts as
// new. An unparseable marker fails open: the full list is returned so an
// ambiguous marker never hides episodes.
func (s *Source) NewEpisodes(ctx context.Context, imdbID, lastKnown string) ([]media.Episode, error) {
	all, err := s.Episodes(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	last, parseErr := media.ParseEpisodeCode(lastKnown)
	if parseErr != nil {
		s.logger.WarnContext(ctx, "unparseable last-watched marker, returning all episodes",
			logging.String(logging.FieldSeriesID, imdbID),
			logging.String(logging.FieldEpisodeCode, lastKnown))
		return all, nil
	}

	var fresh []media.Episode
	for _, ep := range all {
		if last.Before(media.EpisodeCode{Season: ep.Season, Episode: ep.Episode}) {
			fresh = append(fresh, ep)
		}
	}
	return fresh, nil
}
