package imdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bingewatch/internal/config"
	"bingewatch/internal/media"
)

// fakeFetcher serves canned season pages keyed by season number.
type fakeFetcher struct {
	pages map[int]string
	errs  map[int]error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	season := 0
	if i := strings.LastIndex(url, "season="); i >= 0 {
		fmt.Sscanf(url[i:], "season=%d", &season)
	}
	if err, ok := f.errs[season]; ok {
		return "", err
	}
	return f.pages[season], nil
}

func seasonPage(season int, episodes ...int) string {
	var b strings.Builder
	for _, ep := range episodes {
		fmt.Fprintf(&b, `<div class="episode-item"><h3>S%d.E%d ∙ Episode %d</h3></div>`, season, ep, ep)
	}
	return b.String()
}

func newTestSource(f *fakeFetcher) *Source {
	return NewSource(f, config.IMDB{BaseURL: "https://example.test", MaxEmptySeasons: 2, MaxSeasons: 100}, nil)
}

func codes(episodes []media.Episode) []string {
	out := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		out = append(out, ep.Code().String())
	}
	return out
}

func TestEpisodesStopsAfterConsecutiveEmptySeasons(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{
		1: seasonPage(1, 1, 2),
		2: seasonPage(2, 1),
		// 3 and 4 empty; 5 would have content but must never be reached.
		5: seasonPage(5, 1),
	}}
	episodes, err := newTestSource(f).Episodes(context.Background(), "tt0903747")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	want := []string{"S01E01", "S01E02", "S02E01"}
	got := codes(episodes)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("episodes = %v, want %v", got, want)
	}
	if len(f.calls) != 4 {
		t.Errorf("fetched %d seasons, want 4 (stop after seasons 3 and 4 empty)", len(f.calls))
	}
}

func TestEpisodesToleratesGapSeason(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{
		1: seasonPage(1, 1),
		// season 2 empty (hiatus page), season 3 resumes.
		3: seasonPage(3, 1),
	}}
	episodes, err := newTestSource(f).Episodes(context.Background(), "tt0903747")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	got := codes(episodes)
	if strings.Join(got, ",") != "S01E01,S03E01" {
		t.Errorf("episodes = %v", got)
	}
}

func TestEpisodesFirstSeasonFailureReturnsEmpty(t *testing.T) {
	f := &fakeFetcher{errs: map[int]error{1: errors.New("boom")}}
	episodes, err := newTestSource(f).Episodes(context.Background(), "tt0000000")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes) != 0 {
		t.Errorf("expected empty result for unresolvable id, got %d", len(episodes))
	}
	if len(f.calls) != 1 {
		t.Errorf("expected scan to stop after first failure, got %d calls", len(f.calls))
	}
}

func TestEpisodesLaterFailureKeepsCollected(t *testing.T) {
	f := &fakeFetcher{
		pages: map[int]string{1: seasonPage(1, 1, 2)},
		errs:  map[int]error{2: errors.New("boom")},
	}
	episodes, err := newTestSource(f).Episodes(context.Background(), "tt0903747")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes) != 2 {
		t.Errorf("expected the 2 collected episodes to survive, got %d", len(episodes))
	}
}

func TestEpisodesSortedAcrossSeasons(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{
		1: seasonPage(1, 2, 1),
		2: seasonPage(2, 1),
	}}
	episodes, err := newTestSource(f).Episodes(context.Background(), "tt0903747")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	got := codes(episodes)
	if strings.Join(got, ",") != "S01E01,S01E02,S02E01" {
		t.Errorf("episodes = %v", got)
	}
}

func TestNewEpisodesAfterMarker(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{
		1: seasonPage(1, 1),
		2: seasonPage(2, 5, 6),
		3: seasonPage(3, 1),
	}}
	fresh, err := newTestSource(f).NewEpisodes(context.Background(), "tt0903747", "S02E05")
	if err != nil {
		t.Fatalf("new episodes: %v", err)
	}
	got := codes(fresh)
	if strings.Join(got, ",") != "S02E06,S03E01" {
		t.Errorf("new episodes = %v, want [S02E06 S03E01]", got)
	}
}

func TestNewEpisodesNeverWatchedSentinel(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{1: seasonPage(1, 1, 2)}}
	src := newTestSource(f)

	all, err := src.Episodes(context.Background(), "tt0903747")
	if err != nil {
		t.Fatal(err)
	}
	f.calls = nil
	fresh, err := src.NewEpisodes(context.Background(), "tt0903747", media.NeverWatched)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(codes(fresh), ",") != strings.Join(codes(all), ",") {
		t.Errorf("sentinel should return everything: got %v want %v", codes(fresh), codes(all))
	}
}

func TestNewEpisodesUnparseableMarkerFailsOpen(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{1: seasonPage(1, 1, 2)}}
	fresh, err := newTestSource(f).NewEpisodes(context.Background(), "tt0903747", "episode five")
	if err != nil {
		t.Fatalf("new episodes: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("fail-open should return the full list, got %d episodes", len(fresh))
	}
}
