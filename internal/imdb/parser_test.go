package imdb

import "testing"

const seasonOnePage = `
<html><body>
<section>
  <article class="episode-item-wrapper">
    <div class="ipc-title">
      <h3 class="ipc-title__text">S1.E1 ∙ Pilot</h3>
    </div>
    <span class="ipc-metadata-list-item__content">Sun, Jan 20, 2008</span>
  </article>
  <article class="episode-item-wrapper">
    <div class="ipc-title">
      <h3 class="ipc-title__text">S1.E2 ∙ Cat's in the Bag...</h3>
    </div>
    <span class="ipc-metadata-list-item__content">Sun, Jan 27, 2008</span>
  </article>
  <article class="episode-item-wrapper">
    <div class="promo">Watch anywhere. Cancel anytime.</div>
  </article>
</section>
</body></html>`

func TestParseSeasonPage(t *testing.T) {
	episodes := parseSeasonPage(seasonOnePage, 1)
	if len(episodes) != 2 {
		t.Fatalf("got %d episodes, want 2", len(episodes))
	}
	first := episodes[0]
	if first.Season != 1 || first.Episode != 1 {
		t.Errorf("first = S%dE%d, want S1E1", first.Season, first.Episode)
	}
	if first.Title != "Pilot" {
		t.Errorf("title = %q, want Pilot", first.Title)
	}
	if first.AirDate != "Sun, Jan 20, 2008" {
		t.Errorf("air date = %q", first.AirDate)
	}
	if episodes[1].Title != "Cat's in the Bag..." {
		t.Errorf("second title = %q", episodes[1].Title)
	}
}

func TestParseSeasonPageAlternateCodeFormats(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		season  int
		episode int
	}{
		{"compact", "S01E05", 1, 5},
		{"dotted", "S2.E3 ∙ Something", 2, 3},
		{"spaced", "S1 E9", 1, 9},
		{"cross", "3x07", 3, 7},
		{"long form", "Season 4 Episode 12", 4, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<div class="list_item"><h3>` + tt.heading + `</h3></div>`
			episodes := parseSeasonPage(page, 9)
			if len(episodes) != 1 {
				t.Fatalf("got %d episodes, want 1", len(episodes))
			}
			if episodes[0].Season != tt.season || episodes[0].Episode != tt.episode {
				t.Errorf("got S%dE%d, want S%dE%d",
					episodes[0].Season, episodes[0].Episode, tt.season, tt.episode)
			}
		})
	}
}

func TestParseSeasonPageSeedSeasonAlone(t *testing.T) {
	// A container with no episode code never produces a candidate even
	// though the seed season is present.
	page := `<div class="episode-item"><p>Some blurb about the show</p></div>`
	if episodes := parseSeasonPage(page, 3); len(episodes) != 0 {
		t.Fatalf("got %d episodes, want 0", len(episodes))
	}
}

func TestParseSeasonPageUnclosedContainer(t *testing.T) {
	// Document ends mid-container. The candidate is discarded, not emitted
	// half-built, and parsing must not panic.
	page := `<div class="episode-item"><h3>S1.E4 ∙ Cancer Man</h3>`
	if episodes := parseSeasonPage(page, 1); len(episodes) != 0 {
		t.Fatalf("got %d episodes, want 0", len(episodes))
	}
}

func TestParseSeasonPageNestedSameTag(t *testing.T) {
	// Nested divs inside the container must not cause a premature exit.
	page := `<div class="episode-item"><div><div><h3>S1.E6 ∙ Crazy Handful of Nothin'</h3></div></div><br><img src="x.jpg"></div>`
	episodes := parseSeasonPage(page, 1)
	if len(episodes) != 1 {
		t.Fatalf("got %d episodes, want 1", len(episodes))
	}
	if episodes[0].Episode != 6 {
		t.Errorf("episode = %d, want 6", episodes[0].Episode)
	}
}

func TestParseSeasonPageGarbageInput(t *testing.T) {
	for _, content := range []string{"", "not html at all", "<<<>>><div"} {
		if episodes := parseSeasonPage(content, 1); len(episodes) != 0 {
			t.Errorf("parseSeasonPage(%q) produced %d episodes", content, len(episodes))
		}
	}
}

func TestLooksLikeDate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Sun, Jan 20, 2008", true},
		{"January 20, 2008", true},
		{"20 Dec 1999", true},
		{"Jan 20", false},
		{"episode 2008", false},
		{"May 3, 2150", false},
	}
	for _, tt := range tests {
		if got := looksLikeDate(tt.text); got != tt.want {
			t.Errorf("looksLikeDate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractTitleSeparators(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"S1.E5 ∙ Gray Matter", "Gray Matter"},
		{"S1E5 - Gray Matter", "Gray Matter"},
		{"S1E5: Gray Matter", "Gray Matter"},
		{"S1E5", ""},
	}
	for _, tt := range tests {
		if got := extractTitle(tt.text); got != tt.want {
			t.Errorf("extractTitle(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
