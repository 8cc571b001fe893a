package media

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NeverWatched is the sentinel last-episode marker meaning every episode is new.
const NeverWatched = "S00E00"

var episodeCodePattern = regexp.MustCompile(`(?i)^S(\d{1,2})E(\d{1,2})$`)

// EpisodeCode identifies an episode position within a series.
type EpisodeCode struct {
	Season  int
	Episode int
}

// ParseEpisodeCode parses a marker of the form S<season>E<episode>.
// The sentinel S00E00 parses to the zero value, which compares before every
// valid episode.
func ParseEpisodeCode(code string) (EpisodeCode, error) {
	match := episodeCodePattern.FindStringSubmatch(strings.TrimSpace(code))
	if match == nil {
		return EpisodeCode{}, fmt.Errorf("parse episode code %q: want S<season>E<episode>", code)
	}
	season, err := strconv.Atoi(match[1])
	if err != nil {
		return EpisodeCode{}, fmt.Errorf("parse episode code %q: %w", code, err)
	}
	episode, err := strconv.Atoi(match[2])
	if err != nil {
		return EpisodeCode{}, fmt.Errorf("parse episode code %q: %w", code, err)
	}
	return EpisodeCode{Season: season, Episode: episode}, nil
}

// String renders the canonical zero-padded form, e.g. S02E06.
func (c EpisodeCode) String() string {
	return fmt.Sprintf("S%02dE%02d", c.Season, c.Episode)
}

// Before reports whether c orders strictly before other.
func (c EpisodeCode) Before(other EpisodeCode) bool {
	if c.Season != other.Season {
		return c.Season < other.Season
	}
	return c.Episode < other.Episode
}

// Episode is a single aired episode of a tracked series.
type Episode struct {
	SeriesID string
	Season   int
	Episode  int
	Title    string
	AirDate  string
}

// Code returns the episode's canonical code.
func (e Episode) Code() EpisodeCode {
	return EpisodeCode{Season: e.Season, Episode: e.Episode}
}

// SortEpisodes orders episodes ascending by (season, episode) in place.
func SortEpisodes(episodes []Episode) {
	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].Code().Before(episodes[j].Code())
	})
}
