package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "series.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAppliesDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	series, err := s.Add(ctx, Series{Name: "Breaking Bad", IMDBID: "tt0903747"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if series.ID == 0 {
		t.Error("expected assigned id")
	}
	if series.LastEpisode != "S00E00" {
		t.Errorf("last episode = %q, want never-watched sentinel", series.LastEpisode)
	}
	if series.Score != 5 {
		t.Errorf("score = %d, want default 5", series.Score)
	}

	got, err := s.GetByIMDBID(ctx, "tt0903747")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Breaking Bad" || got.Snoozed {
		t.Errorf("got %+v", got)
	}
}

func TestAddValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		series Series
	}{
		{"empty name", Series{Name: " ", IMDBID: "tt0903747"}},
		{"bad imdb id", Series{Name: "X", IMDBID: "0903747"}},
		{"short imdb id", Series{Name: "X", IMDBID: "tt123"}},
		{"bad score", Series{Name: "X", IMDBID: "tt0903747", Score: 11}},
		{"bad marker", Series{Name: "X", IMDBID: "tt0903747", LastEpisode: "episode five"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Add(ctx, tt.series); err == nil {
				t.Errorf("expected validation error for %+v", tt.series)
			}
		})
	}
}

func TestAddDuplicateIMDBID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, Series{Name: "Breaking Bad", IMDBID: "tt0903747"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Add(ctx, Series{Name: "Breaking Bad Again", IMDBID: "tt0903747"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, Series{Name: "Breaking Bad", IMDBID: "tt0903747"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Add(ctx, Series{Name: "breaking bad", IMDBID: "tt0959621"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestListOrderingAndSnoozeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, series := range []Series{
		{Name: "Middling", IMDBID: "tt0000001", Score: 5},
		{Name: "Favorite", IMDBID: "tt0000002", Score: 9},
		{Name: "Abandoned", IMDBID: "tt0000003", Score: 2, Snoozed: true},
		{Name: "Also Nine", IMDBID: "tt0000004", Score: 9},
	} {
		if _, err := s.Add(ctx, series); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	gotOrder := []string{}
	for _, series := range all {
		gotOrder = append(gotOrder, series.Name)
	}
	want := []string{"Also Nine", "Favorite", "Middling", "Abandoned"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotOrder, want)
		}
	}

	active, err := s.List(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 3 {
		t.Errorf("active list has %d entries, want 3", len(active))
	}
}

func TestUpdateOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, Series{Name: "The Wire", IMDBID: "tt0306414"}); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateLastEpisode(ctx, "tt0306414", "s2e5"); err != nil {
		t.Fatalf("update last episode: %v", err)
	}
	got, _ := s.GetByIMDBID(ctx, "tt0306414")
	if got.LastEpisode != "S02E05" {
		t.Errorf("marker not canonicalized: %q", got.LastEpisode)
	}
	if got.LastWatchDate.IsZero() {
		t.Error("watch date not refreshed")
	}

	if err := s.UpdateScore(ctx, "tt0306414", 10); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateScore(ctx, "tt0306414", 0); err == nil {
		t.Error("expected score range error")
	}

	if err := s.SetSnoozed(ctx, "tt0306414", true); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetByIMDBID(ctx, "tt0306414")
	if got.Score != 10 || !got.Snoozed {
		t.Errorf("got %+v", got)
	}

	if err := s.UpdateScore(ctx, "tt9999999", 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, Series{Name: "Lost", IMDBID: "tt0411008"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "tt0411008"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByIMDBID(ctx, "tt0411008"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "tt0411008"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, Series{Name: "True Detective", IMDBID: "tt2356777"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetByName(ctx, "true detective")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got.IMDBID != "tt2356777" {
		t.Errorf("got %+v", got)
	}
}

func TestFindSimilar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, series := range []Series{
		{Name: "Breaking Bad", IMDBID: "tt0903747"},
		{Name: "Better Call Saul", IMDBID: "tt3032476"},
	} {
		if _, err := s.Add(ctx, series); err != nil {
			t.Fatal(err)
		}
	}

	similar, err := s.FindSimilar(ctx, "breaking bad", 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if len(similar) != 1 || similar[0].IMDBID != "tt0903747" {
		t.Errorf("similar = %+v", similar)
	}

	substring, err := s.FindSimilar(ctx, "Breaking", 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if len(substring) != 1 {
		t.Errorf("substring match failed: %+v", substring)
	}

	none, err := s.FindSimilar(ctx, "The Sopranos", 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unexpected matches: %+v", none)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if empty.Total != 0 || empty.AverageScore != 0 || len(empty.TopRated) != 0 {
		t.Errorf("empty store stats = %+v", empty)
	}

	seed := []Series{
		{Name: "Favorite", IMDBID: "tt0000001", Score: 10},
		{Name: "Solid", IMDBID: "tt0000002", Score: 8},
		{Name: "Middling", IMDBID: "tt0000003", Score: 5},
		{Name: "Paused", IMDBID: "tt0000004", Score: 9, Snoozed: true},
	}
	for _, series := range seed {
		if _, err := s.Add(ctx, series); err != nil {
			t.Fatalf("add %s: %v", series.Name, err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 4 || stats.Active != 3 || stats.Snoozed != 1 {
		t.Errorf("counts = total %d active %d snoozed %d", stats.Total, stats.Active, stats.Snoozed)
	}
	if stats.AverageScore != 8.0 {
		t.Errorf("average score = %v, want 8.0", stats.AverageScore)
	}
	if len(stats.TopRated) != 3 {
		t.Fatalf("expected 3 top-rated series, got %d", len(stats.TopRated))
	}
	// Snoozed series still count toward the top-rated list.
	want := []string{"Favorite", "Paused", "Solid"}
	for i, name := range want {
		if stats.TopRated[i].Name != name {
			t.Errorf("top rated[%d] = %q, want %q", i, stats.TopRated[i].Name, name)
		}
	}
	if stats.LastWatch.IsZero() {
		t.Error("expected last watch activity to be recorded")
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("expected ErrSchemaMismatch, got %v", err)
	}
}
