package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const episodePage = `<html><body>
<article class="episode-item-wrapper">
  <div><h4>S1.E1 &#8729; Pilot</h4></div>
  <span>Mon, Jan 20, 2008</span>
</article>
</body></html>`

func searchPage(videoID, title string) string {
	return fmt.Sprintf(`<html><body><script>
var ytInitialData = {"contents":[{"videoRenderer":{
  "videoId":%q,
  "title":{"runs":[{"text":%q}]},
  "ownerText":{"runs":[{"text":"TrailerChannel"}]}
}}]};
</script></body></html>`, videoID, title)
}

// setupScrapeEnv points the episode and video base URLs at local test servers.
func setupScrapeEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	imdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("season") == "1" {
			fmt.Fprint(w, episodePage)
			return
		}
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	t.Cleanup(imdbServer.Close)

	ytServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("search_query")
		switch {
		case strings.Contains(query, "S01E01"), strings.Contains(query, "Pilot"),
			strings.Contains(query, "Season 1 Episode 1"):
			fmt.Fprint(w, searchPage("epclip00001", "Breaking Bad S01E01 Pilot clip"))
		default:
			fmt.Fprint(w, searchPage("trailer0001", "Breaking Bad trailer"))
		}
	}))
	t.Cleanup(ytServer.Close)

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[imdb]
base_url = %q

[youtube]
base_url = %q

[fetch]
max_attempts = 1

[logging]
format = "console"
level = "error"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), imdbServer.URL, ytServer.URL)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func TestCheckReportsOnlyUnseenVideos(t *testing.T) {
	env := setupScrapeEnv(t)

	if _, err := runCLI(t, env, "add", "Breaking Bad", "tt0903747"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Breaking Bad S01E01")
	requireContains(t, out, "watch?v=epclip00001")
	requireContains(t, out, "watch?v=trailer0001")

	// A second run finds the same videos, which are no longer new.
	out, err = runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	requireContains(t, out, "Nothing new")
}

func TestCheckSingleSeriesSkipsGeneralSearch(t *testing.T) {
	env := setupScrapeEnv(t)

	if _, err := runCLI(t, env, "add", "Breaking Bad", "tt0903747"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := runCLI(t, env, "check", "tt0903747")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "watch?v=epclip00001")
	if strings.Contains(out, "trailer0001") {
		t.Fatalf("single-series check should not run the general search:\n%s", out)
	}
}

func TestEpisodesCommand(t *testing.T) {
	env := setupScrapeEnv(t)

	if _, err := runCLI(t, env, "add", "Breaking Bad", "tt0903747"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := runCLI(t, env, "episodes", "Breaking Bad")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	requireContains(t, out, "S01E01")
	requireContains(t, out, "Pilot")
	requireContains(t, out, "Jan 20, 2008")
}

func TestTrailersCommand(t *testing.T) {
	env := setupScrapeEnv(t)

	out, err := runCLI(t, env, "trailers", "Breaking Bad")
	if err != nil {
		t.Fatalf("trailers: %v", err)
	}
	requireContains(t, out, "Breaking Bad trailer")
	requireContains(t, out, "watch?v=trailer0001")

	out, err = runCLI(t, env, "trailers", "Breaking Bad", "--episode", "S01E01")
	if err != nil {
		t.Fatalf("trailers --episode: %v", err)
	}
	requireContains(t, out, "watch?v=epclip00001")
}
