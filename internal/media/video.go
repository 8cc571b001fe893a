package media

import (
	"strings"
	"time"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// UnknownChannel is the default channel name when the source page omits it.
const UnknownChannel = "Unknown"

// Video is a single discovered video from a search-results page.
type Video struct {
	ID           string
	Title        string
	Channel      string
	Duration     string
	ThumbnailURL string
}

// URL returns the watch URL derived from the video ID.
func (v Video) URL() string {
	if strings.TrimSpace(v.ID) == "" {
		return ""
	}
	return watchURLPrefix + v.ID
}

// GeneralContext is the cache context for series-wide (non-episode) searches.
const GeneralContext = "general"

// Notification groups newly discovered videos for one (subject, context) key.
// Notifications are derived views recomputed each run; the freshness cache is
// the persisted state.
type Notification struct {
	Subject   string
	Context   string
	NewVideos []Video
	CheckedAt time.Time
}

// Count returns the number of new videos in the notification.
func (n Notification) Count() int {
	return len(n.NewVideos)
}
