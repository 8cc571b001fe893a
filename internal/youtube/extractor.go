package youtube

import (
	"encoding/json"
	"regexp"

	"bingewatch/internal/media"
)

const (
	// maxSearchDepth bounds the recursive walk through the parsed blob.
	// The real structure is around 10 levels deep; the bound protects
	// against adversarial or malformed input.
	maxSearchDepth = 15

	// maxFallbackResults caps how many ids the regex fallback recovers.
	maxFallbackResults = 10

	unknownTitle = "Unknown Title"
)

var (
	initialDataPattern = regexp.MustCompile(`(?s)(?:var\s+)?ytInitialData\s*=\s*(\{.+?\});`)
	videoIDPattern     = regexp.MustCompile(`"videoId"\s*:\s*"([a-zA-Z0-9_-]{11})"`)
	fallbackTitle      = regexp.MustCompile(`"title"\s*:\s*\{\s*"runs"\s*:\s*\[\s*\{\s*"text"\s*:\s*"([^"]+)"`)
)

// ExtractVideos pulls video records out of a search results page. The
// primary path parses the embedded ytInitialData JSON; if that yields
// nothing the regex fallback scans the raw text. Extraction never fails:
// a page we cannot read produces an empty list.
func ExtractVideos(content string) []media.Video {
	if videos := extractFromInitialData(content); len(videos) > 0 {
		return videos
	}
	return extractFromRegex(content)
}

func extractFromInitialData(content string) []media.Video {
	match := initialDataPattern.FindStringSubmatch(content)
	if match == nil {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
		return nil
	}

	var videos []media.Video
	for _, renderer := range findVideoRenderers(data, maxSearchDepth) {
		if video, ok := parseVideoRenderer(renderer); ok {
			videos = append(videos, video)
		}
	}
	return videos
}

// findVideoRenderers collects every object stored under a "videoRenderer"
// key, wherever it sits in the tree.
func findVideoRenderers(data any, depth int) []map[string]any {
	if depth <= 0 {
		return nil
	}
	var renderers []map[string]any
	switch node := data.(type) {
	case map[string]any:
		if renderer, ok := node["videoRenderer"].(map[string]any); ok {
			renderers = append(renderers, renderer)
		}
		for _, value := range node {
			renderers = append(renderers, findVideoRenderers(value, depth-1)...)
		}
	case []any:
		for _, item := range node {
			renderers = append(renderers, findVideoRenderers(item, depth-1)...)
		}
	}
	return renderers
}

// parseVideoRenderer projects one renderer object onto a Video. Only the
// id is required; text fields appear in two shapes (a list of run segments
// or a plain simpleText) depending on page revision.
func parseVideoRenderer(renderer map[string]any) (media.Video, bool) {
	id, _ := renderer["videoId"].(string)
	if id == "" {
		return media.Video{}, false
	}

	video := media.Video{
		ID:      id,
		Title:   unknownTitle,
		Channel: media.UnknownChannel,
	}
	if title := textContent(renderer["title"]); title != "" {
		video.Title = title
	}
	if channel := textContent(renderer["ownerText"]); channel != "" {
		video.Channel = channel
	}
	if length, ok := renderer["lengthText"].(map[string]any); ok {
		video.Duration, _ = length["simpleText"].(string)
	}
	if thumb, ok := renderer["thumbnail"].(map[string]any); ok {
		if list, ok := thumb["thumbnails"].([]any); ok && len(list) > 0 {
			if first, ok := list[0].(map[string]any); ok {
				video.ThumbnailURL, _ = first["url"].(string)
			}
		}
	}
	return video, true
}

// textContent reads a text node that is either {"runs":[{"text":...}]} or
// {"simpleText":...}.
func textContent(node any) string {
	obj, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if runs, ok := obj["runs"].([]any); ok && len(runs) > 0 {
		if first, ok := runs[0].(map[string]any); ok {
			if text, ok := first["text"].(string); ok {
				return text
			}
		}
	}
	if text, ok := obj["simpleText"].(string); ok {
		return text
	}
	return ""
}

// extractFromRegex scans the raw page for video ids and tries a narrower
// title pattern in a fixed window around each hit.
func extractFromRegex(content string) []media.Video {
	var videos []media.Video
	seen := make(map[string]struct{})

	for _, loc := range videoIDPattern.FindAllStringSubmatchIndex(content, -1) {
		id := content[loc[2]:loc[3]]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		start := loc[0] - 500
		if start < 0 {
			start = 0
		}
		end := loc[1] + 500
		if end > len(content) {
			end = len(content)
		}
		title := unknownTitle
		if m := fallbackTitle.FindStringSubmatch(content[start:end]); m != nil {
			title = m[1]
		}

		videos = append(videos, media.Video{
			ID:      id,
			Title:   title,
			Channel: media.UnknownChannel,
		})
		if len(videos) >= maxFallbackResults {
			break
		}
	}
	return videos
}
