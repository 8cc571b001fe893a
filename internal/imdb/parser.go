package imdb

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// containerIndicators are class substrings that mark an episode list item.
// The site has used several wrappers over time; matching any of them keeps
// the parser working across page revisions.
var containerIndicators = []string{
	"episode-item",
	"list_item",
	"ipc-metadata-list-summary-item",
}

// Episode code patterns in priority order. First match wins.
var (
	codeCompact  = regexp.MustCompile(`(?i)S(\d{1,2})[.\s]*E(\d{1,2})`)
	codeCross    = regexp.MustCompile(`(\d{1,2})x(\d{1,2})`)
	codeLongForm = regexp.MustCompile(`(?i)Season\s*(\d+)\s*Episode\s*(\d+)`)
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var monthTokens = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// titleSeparators split an episode heading like "S1.E5 ∙ Gray Matter" into
// code and title. Ordered so the longer separators are tried first.
var titleSeparators = []string{"∙", " - ", ": ", "- ", " : "}

// voidElements never receive a closing tag, so they must not touch the
// container depth counter.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// candidate is an in-progress episode built while inside a list item
// container. It is promoted to a result only when both season and episode
// were established.
type candidate struct {
	season     int
	episode    int
	hasSeason  bool
	hasEpisode bool
	title      string
	airDate    string
}

func (c candidate) valid() bool {
	return c.hasSeason && c.hasEpisode
}

// parsedEpisode is one validated entry extracted from a season page.
type parsedEpisode struct {
	Season  int
	Episode int
	Title   string
	AirDate string
}

type episodeParser struct {
	seedSeason int

	inContainer bool
	depth       int
	current     candidate

	episodes []parsedEpisode
}

// parseSeasonPage extracts episode entries from one season listing page.
// The season argument seeds each candidate; markup that names a different
// season overrides the seed. Malformed markup degrades to fewer results,
// never an error. A container left open at document end is discarded.
func parseSeasonPage(content string, season int) []parsedEpisode {
	p := &episodeParser{seedSeason: season}
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return p.episodes
		case html.StartTagToken:
			name, class := tagNameAndClass(z)
			p.handleStart(name, class)
		case html.EndTagToken:
			name, _ := z.TagName()
			p.handleEnd(string(name))
		case html.TextToken:
			p.handleText(string(z.Text()))
		}
	}
}

func tagNameAndClass(z *html.Tokenizer) (string, string) {
	name, hasAttr := z.TagName()
	var class string
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "class" {
			class = string(val)
			break
		}
	}
	return string(name), class
}

func (p *episodeParser) handleStart(tag, class string) {
	if hasContainerIndicator(class) {
		// A new container while one is open abandons the previous
		// candidate; unbalanced markup must not merge two episodes.
		p.inContainer = true
		p.depth = 1
		p.current = candidate{season: p.seedSeason, hasSeason: true}
		return
	}
	if !p.inContainer {
		return
	}
	if _, void := voidElements[tag]; void {
		return
	}
	p.depth++
}

func (p *episodeParser) handleEnd(tag string) {
	if !p.inContainer {
		return
	}
	if _, void := voidElements[tag]; void {
		return
	}
	p.depth--
	if p.depth > 0 {
		return
	}
	p.inContainer = false
	if p.current.valid() {
		p.episodes = append(p.episodes, parsedEpisode{
			Season:  p.current.season,
			Episode: p.current.episode,
			Title:   p.current.title,
			AirDate: p.current.airDate,
		})
	}
}

func (p *episodeParser) handleText(data string) {
	if !p.inContainer {
		return
	}
	text := strings.TrimSpace(data)
	if text == "" {
		return
	}
	if season, episode, ok := extractEpisodeCode(text); ok {
		p.current.season = season
		p.current.episode = episode
		p.current.hasSeason = true
		p.current.hasEpisode = true
		if title := extractTitle(text); title != "" {
			p.current.title = title
		}
	}
	if p.current.airDate == "" && looksLikeDate(text) {
		p.current.airDate = text
	}
}

func hasContainerIndicator(class string) bool {
	for _, indicator := range containerIndicators {
		if strings.Contains(class, indicator) {
			return true
		}
	}
	return false
}

// extractEpisodeCode recognizes "S1.E5", "S01E05", "1x05", and
// "Season 1 Episode 5" anywhere in the text.
func extractEpisodeCode(text string) (season, episode int, ok bool) {
	for _, pattern := range []*regexp.Regexp{codeCompact, codeCross, codeLongForm} {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return atoiLoose(m[1]), atoiLoose(m[2]), true
		}
	}
	return 0, 0, false
}

// extractTitle returns the remainder after the first separator found in a
// heading, or "" when the heading is only an episode code.
func extractTitle(text string) string {
	for _, sep := range titleSeparators {
		if _, rest, found := strings.Cut(text, sep); found {
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
	}
	return ""
}

// looksLikeDate is a heuristic, not a date parser: a month token plus a
// plausible 4-digit year is enough.
func looksLikeDate(text string) bool {
	lower := strings.ToLower(text)
	hasMonth := false
	for _, month := range monthTokens {
		if strings.Contains(lower, month) {
			hasMonth = true
			break
		}
	}
	return hasMonth && yearPattern.MatchString(text)
}

func atoiLoose(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
