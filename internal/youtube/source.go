package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"

	"bingewatch/internal/config"
	"bingewatch/internal/logging"
	"bingewatch/internal/media"
	"bingewatch/internal/textutil"
)

// Fetcher retrieves a page body for a URL. Satisfied by *fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var episodeCodePattern = regexp.MustCompile(`(?i)S(\d+)E(\d+)`)

// Source searches for videos related to a series or episode.
type Source struct {
	client     Fetcher
	baseURL    string
	maxResults int
	logger     *slog.Logger
}

// NewSource constructs a video source over the given fetcher.
func NewSource(client Fetcher, cfg config.YouTube, logger *slog.Logger) *Source {
	if logger == nil {
		logger = logging.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	maxResults := cfg.MaxResults
	if maxResults < 1 {
		maxResults = 5
	}
	return &Source{
		client:     client,
		baseURL:    baseURL,
		maxResults: maxResults,
		logger:     logging.NewComponentLogger(logger, "youtube"),
	}
}

func (s *Source) searchURL(query string) string {
	return fmt.Sprintf("%s/results?search_query=%s", s.baseURL, url.QueryEscape(query))
}

// SearchEpisode finds videos for a specific episode. Several query
// phrasings are tried because tagging conventions vary; results are
// deduplicated by id across phrasings with the first occurrence winning,
// then ranked by how well the title matches the series name.
func (s *Source) SearchEpisode(ctx context.Context, seriesName, episodeCode, episodeTitle string) ([]media.Video, error) {
	queries := buildEpisodeQueries(seriesName, episodeCode, episodeTitle)
	collected := s.collect(ctx, queries)
	ranked := rankByRelevance(collected, seriesName)
	return truncate(ranked, s.maxResults), nil
}

// SearchSeries finds general trailers for a series, not tied to any
// episode.
func (s *Source) SearchSeries(ctx context.Context, seriesName string) ([]media.Video, error) {
	queries := []string{
		seriesName + " official trailer",
		seriesName + " TV series trailer",
		seriesName + " season trailer",
	}
	return truncate(s.collect(ctx, queries), s.maxResults), nil
}

// collect runs the query variants in order, accumulating unique videos.
// One variant's failure is skipped, not propagated; the scan also ends
// early once twice the result limit is gathered.
func (s *Source) collect(ctx context.Context, queries []string) []media.Video {
	var all []media.Video
	seen := make(map[string]struct{})

	for _, query := range queries {
		body, err := s.client.Fetch(ctx, s.searchURL(query))
		if err != nil {
			s.logger.WarnContext(ctx, "search failed",
				logging.String(logging.FieldQuery, query),
				logging.Error(err))
			continue
		}
		for _, video := range ExtractVideos(body) {
			if _, dup := seen[video.ID]; dup {
				continue
			}
			seen[video.ID] = struct{}{}
			all = append(all, video)
		}
		if len(all) >= s.maxResults*2 {
			break
		}
	}
	return all
}

func buildEpisodeQueries(seriesName, episodeCode, episodeTitle string) []string {
	season, episode := 1, 1
	if m := episodeCodePattern.FindStringSubmatch(episodeCode); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
	}

	queries := []string{
		fmt.Sprintf("%s %s trailer", seriesName, episodeCode),
		fmt.Sprintf("%s Season %d Episode %d", seriesName, season, episode),
	}
	if episodeTitle != "" && episodeTitle != "Unknown" {
		queries = append(queries, fmt.Sprintf("%s %s", seriesName, episodeTitle))
	}
	queries = append(queries, fmt.Sprintf("%s %s scene", seriesName, episodeCode))
	return queries
}

// rankByRelevance partitions videos into titles containing every word of
// the series name (first) and titles containing at least half (second);
// weaker matches are dropped. This is a heuristic ordering, not a
// correctness guarantee.
func rankByRelevance(videos []media.Video, seriesName string) []media.Video {
	words := textutil.Tokenize(seriesName)
	if len(words) == 0 {
		return videos
	}

	var relevant, partial []media.Video
	for _, video := range videos {
		title := textutil.NewTokenSet(video.Title)
		switch matched := title.CountContained(words); {
		case matched == len(words):
			relevant = append(relevant, video)
		case matched*2 >= len(words):
			partial = append(partial, video)
		}
	}
	return append(relevant, partial...)
}

func truncate(videos []media.Video, limit int) []media.Video {
	if len(videos) > limit {
		return videos[:limit]
	}
	return videos
}
