package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"bingewatch/internal/media"
	"bingewatch/internal/textutil"
)

// Store manages series persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the series database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts a new series and returns it with its assigned id. Defaults
// are applied for an empty last-episode marker (never watched) and a zero
// score.
func (s *Store) Add(ctx context.Context, series Series) (Series, error) {
	if err := series.normalize(); err != nil {
		return Series{}, err
	}

	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now
	if series.LastWatchDate.IsZero() {
		series.LastWatchDate = now
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO series (name, imdb_id, last_episode, last_watch_date, score, snoozed, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		series.Name,
		series.IMDBID,
		series.LastEpisode,
		series.LastWatchDate.Format(time.RFC3339),
		series.Score,
		boolToInt(series.Snoozed),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return Series{}, fmt.Errorf("%w: %s", ErrDuplicate, series.IMDBID)
		}
		return Series{}, fmt.Errorf("insert series: %w", err)
	}

	series.ID, err = res.LastInsertId()
	if err != nil {
		return Series{}, fmt.Errorf("read insert id: %w", err)
	}
	return series, nil
}

// GetByIMDBID returns the series with the given IMDb id.
func (s *Store) GetByIMDBID(ctx context.Context, imdbID string) (Series, error) {
	return s.getOne(ctx, "imdb_id = ?", imdbID)
}

// GetByName returns the series with the given display name (exact,
// case-insensitive).
func (s *Store) GetByName(ctx context.Context, name string) (Series, error) {
	return s.getOne(ctx, "name = ? COLLATE NOCASE", strings.TrimSpace(name))
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (Series, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, imdb_id, last_episode, last_watch_date, score, snoozed, created_at, updated_at
         FROM series WHERE `+where, arg)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Series{}, ErrNotFound
	}
	if err != nil {
		return Series{}, fmt.Errorf("query series: %w", err)
	}
	return series, nil
}

// List returns tracked series ordered by score descending then name. When
// includeSnoozed is false, snoozed series are omitted.
func (s *Store) List(ctx context.Context, includeSnoozed bool) ([]Series, error) {
	query := `SELECT id, name, imdb_id, last_episode, last_watch_date, score, snoozed, created_at, updated_at
              FROM series`
	if !includeSnoozed {
		query += " WHERE snoozed = 0"
	}
	query += " ORDER BY score DESC, name COLLATE NOCASE ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var result []Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		result = append(result, series)
	}
	return result, rows.Err()
}

// UpdateLastEpisode records a new last-watched marker and refreshes the
// watch date.
func (s *Store) UpdateLastEpisode(ctx context.Context, imdbID, episodeCode string) error {
	code, err := media.ParseEpisodeCode(episodeCode)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return s.update(ctx, imdbID,
		"UPDATE series SET last_episode = ?, last_watch_date = ?, updated_at = ? WHERE imdb_id = ?",
		code.String(), now, now, imdbID)
}

// UpdateScore changes the 1-10 rating.
func (s *Store) UpdateScore(ctx context.Context, imdbID string, score int) error {
	if err := ValidateScore(score); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return s.update(ctx, imdbID,
		"UPDATE series SET score = ?, updated_at = ? WHERE imdb_id = ?",
		score, now, imdbID)
}

// SetSnoozed marks or unmarks a series as snoozed. Snoozed series are
// skipped by bulk checks but remain tracked.
func (s *Store) SetSnoozed(ctx context.Context, imdbID string, snoozed bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.update(ctx, imdbID,
		"UPDATE series SET snoozed = ?, updated_at = ? WHERE imdb_id = ?",
		boolToInt(snoozed), now, imdbID)
}

func (s *Store) update(ctx context.Context, imdbID, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, imdbID)
	}
	return nil
}

// Delete removes a series by IMDb id.
func (s *Store) Delete(ctx context.Context, imdbID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM series WHERE imdb_id = ?", imdbID)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, imdbID)
	}
	return nil
}

// Stats summarizes the tracked series for display.
type Stats struct {
	Total        int
	Active       int
	Snoozed      int
	AverageScore float64
	TopRated     []Series
	LastWatch    time.Time
}

// topRatedCount bounds the highest-scored list inside Stats.
const topRatedCount = 3

// Stats returns counts, the average score, the highest-scored series, and
// the most recent watch activity across all tracked series.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	all, err := s.List(ctx, true)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(all)}
	scoreSum := 0
	for _, series := range all {
		if series.Snoozed {
			stats.Snoozed++
		} else {
			stats.Active++
		}
		scoreSum += series.Score
		if series.LastWatchDate.After(stats.LastWatch) {
			stats.LastWatch = series.LastWatchDate
		}
	}
	if len(all) > 0 {
		stats.AverageScore = float64(scoreSum) / float64(len(all))
	}
	// List already orders by score descending.
	if len(all) > topRatedCount {
		stats.TopRated = all[:topRatedCount]
	} else {
		stats.TopRated = all
	}
	return stats, nil
}

// FindSimilar returns tracked series whose names resemble the given one,
// for duplicate detection before an add. Matching is heuristic: exact or
// substring matches always qualify, otherwise token overlap (Jaccard) must
// reach the threshold.
func (s *Store) FindSimilar(ctx context.Context, name string, threshold float64) ([]Series, error) {
	all, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(strings.TrimSpace(name))
	targetTokens := textutil.NewTokenSet(name)

	var similar []Series
	for _, series := range all {
		candidate := strings.ToLower(strings.TrimSpace(series.Name))
		if target == candidate ||
			strings.Contains(candidate, target) ||
			strings.Contains(target, candidate) {
			similar = append(similar, series)
			continue
		}
		if jaccard(targetTokens, textutil.NewTokenSet(series.Name)) >= threshold {
			similar = append(similar, series)
		}
	}
	return similar, nil
}

func jaccard(a, b textutil.TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if b.Contains(token) {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(row rowScanner) (Series, error) {
	var (
		series                          Series
		snoozed                         int
		watchDate, createdAt, updatedAt string
	)
	err := row.Scan(&series.ID, &series.Name, &series.IMDBID, &series.LastEpisode,
		&watchDate, &series.Score, &snoozed, &createdAt, &updatedAt)
	if err != nil {
		return Series{}, err
	}
	series.Snoozed = snoozed != 0
	series.LastWatchDate, _ = time.Parse(time.RFC3339, watchDate)
	series.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	series.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return series, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
