package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bingewatch/internal/media"
)

// Series is one tracked show.
type Series struct {
	ID            int64
	Name          string
	IMDBID        string
	LastEpisode   string
	LastWatchDate time.Time
	Score         int
	Snoozed       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var imdbIDPattern = regexp.MustCompile(`^tt\d{7,8}$`)

// ErrNotFound reports that no series matched the lookup.
var ErrNotFound = errors.New("series not found")

// ErrDuplicate reports that a series with the same name or IMDb id already
// exists.
var ErrDuplicate = errors.New("series already tracked")

// ValidateIMDBID checks the canonical tt-prefixed id form.
func ValidateIMDBID(id string) error {
	if !imdbIDPattern.MatchString(id) {
		return fmt.Errorf("invalid IMDb id %q (expected form tt0903747)", id)
	}
	return nil
}

// ValidateScore checks the 1-10 rating range.
func ValidateScore(score int) error {
	if score < 1 || score > 10 {
		return fmt.Errorf("score %d out of range 1-10", score)
	}
	return nil
}

// normalize fills defaults and validates a series before insertion.
func (s *Series) normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return errors.New("series name must not be empty")
	}
	s.IMDBID = strings.TrimSpace(s.IMDBID)
	if err := ValidateIMDBID(s.IMDBID); err != nil {
		return err
	}
	if s.LastEpisode == "" {
		s.LastEpisode = media.NeverWatched
	}
	if _, err := media.ParseEpisodeCode(s.LastEpisode); err != nil {
		return fmt.Errorf("last episode: %w", err)
	}
	if s.Score == 0 {
		s.Score = 5
	}
	return ValidateScore(s.Score)
}
