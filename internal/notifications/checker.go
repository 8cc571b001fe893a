package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bingewatch/internal/logging"
	"bingewatch/internal/media"
	"bingewatch/internal/store"
)

// EpisodeSource finds episodes newer than a last-watched marker.
type EpisodeSource interface {
	NewEpisodes(ctx context.Context, imdbID, lastKnown string) ([]media.Episode, error)
}

// VideoSource searches for videos related to an episode or a series.
type VideoSource interface {
	SearchEpisode(ctx context.Context, seriesName, episodeCode, episodeTitle string) ([]media.Video, error)
	SearchSeries(ctx context.Context, seriesName string) ([]media.Video, error)
}

// FreshnessCache filters search results down to never-before-seen videos.
type FreshnessCache interface {
	NewVideos(subject, context string, current []media.Video) []media.Video
}

// SeriesStore is the slice of the record store the checker needs.
type SeriesStore interface {
	List(ctx context.Context, includeSnoozed bool) ([]store.Series, error)
	GetByIMDBID(ctx context.Context, imdbID string) (store.Series, error)
}

// Checker runs the notification workflow.
type Checker struct {
	series   SeriesStore
	episodes EpisodeSource
	videos   VideoSource
	cache    FreshnessCache
	pusher   Pusher
	logger   *slog.Logger
	now      func() time.Time
}

// NewChecker wires the workflow together. A nil pusher disables push
// delivery; results are still returned for display.
func NewChecker(series SeriesStore, episodes EpisodeSource, videos VideoSource, cache FreshnessCache, pusher Pusher, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if pusher == nil {
		pusher = NoopPusher{}
	}
	return &Checker{
		series:   series,
		episodes: episodes,
		videos:   videos,
		cache:    cache,
		pusher:   pusher,
		logger:   logging.NewComponentLogger(logger, "checker"),
		now:      time.Now,
	}
}

// CheckOptions controls which series a check covers and how deep it goes.
type CheckOptions struct {
	IncludeSnoozed bool
	MaxEpisodes    int
	MinScore       int
}

func (o CheckOptions) maxEpisodes() int {
	if o.MaxEpisodes < 1 {
		return 3
	}
	return o.MaxEpisodes
}

// CheckAll checks every tracked series. A failure on one series is logged
// and skipped; the rest of the run continues. Each notification holds only
// videos never reported before for its (series, episode) key.
func (c *Checker) CheckAll(ctx context.Context, opts CheckOptions) ([]media.Notification, error) {
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())

	seriesList, err := c.series.List(ctx, opts.IncludeSnoozed)
	if err != nil {
		return nil, err
	}

	var notifications []media.Notification
	checked := 0
	for _, series := range seriesList {
		if opts.MinScore > 0 && series.Score < opts.MinScore {
			continue
		}
		checked++
		notifications = append(notifications, c.checkOne(ctx, series, opts.maxEpisodes(), true)...)
	}

	c.logger.InfoContext(ctx, "check complete",
		logging.Int("series_checked", checked),
		logging.Int("notifications", len(notifications)))

	c.push(ctx, notifications)
	return notifications, nil
}

// CheckSeries checks a single series by IMDb id.
func (c *Checker) CheckSeries(ctx context.Context, imdbID string, opts CheckOptions) ([]media.Notification, error) {
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())

	series, err := c.series.GetByIMDBID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	notifications := c.checkOne(ctx, series, opts.maxEpisodes(), false)
	c.push(ctx, notifications)
	return notifications, nil
}

// checkOne finds new episodes for one series and searches each for videos.
// When general is set, a series-wide trailer search runs as well.
func (c *Checker) checkOne(ctx context.Context, series store.Series, maxEpisodes int, general bool) []media.Notification {
	ctx = logging.WithSeries(ctx, series.Name)

	fresh, err := c.episodes.NewEpisodes(ctx, series.IMDBID, series.LastEpisode)
	if err != nil {
		c.logger.WarnContext(ctx, "episode check failed",
			logging.String(logging.FieldSeriesID, series.IMDBID),
			logging.Error(err))
		if pushErr := c.pusher.NotifyError(ctx, err, series.Name); pushErr != nil {
			c.logger.WarnContext(ctx, "error push failed", logging.Error(pushErr))
		}
		return nil
	}
	if len(fresh) > maxEpisodes {
		fresh = fresh[:maxEpisodes]
	}

	var notifications []media.Notification
	for _, episode := range fresh {
		if n, ok := c.checkEpisode(ctx, series.Name, episode); ok {
			notifications = append(notifications, n)
		}
	}
	if general {
		if n, ok := c.checkGeneral(ctx, series.Name); ok {
			notifications = append(notifications, n)
		}
	}
	return notifications
}

func (c *Checker) checkEpisode(ctx context.Context, seriesName string, episode media.Episode) (media.Notification, bool) {
	code := episode.Code().String()
	videos, err := c.videos.SearchEpisode(ctx, seriesName, code, episode.Title)
	if err != nil {
		c.logger.WarnContext(ctx, "episode video search failed",
			logging.String(logging.FieldEpisodeCode, code),
			logging.Error(err))
		return media.Notification{}, false
	}
	if len(videos) == 0 {
		return media.Notification{}, false
	}

	fresh := c.cache.NewVideos(seriesName, code, videos)
	if len(fresh) == 0 {
		return media.Notification{}, false
	}
	return media.Notification{
		Subject:   seriesName,
		Context:   code,
		NewVideos: fresh,
		CheckedAt: c.now(),
	}, true
}

func (c *Checker) checkGeneral(ctx context.Context, seriesName string) (media.Notification, bool) {
	videos, err := c.videos.SearchSeries(ctx, seriesName)
	if err != nil {
		c.logger.WarnContext(ctx, "series video search failed", logging.Error(err))
		return media.Notification{}, false
	}
	if len(videos) == 0 {
		return media.Notification{}, false
	}

	fresh := c.cache.NewVideos(seriesName, media.GeneralContext, videos)
	if len(fresh) == 0 {
		return media.Notification{}, false
	}
	return media.Notification{
		Subject:   seriesName,
		Context:   media.GeneralContext,
		NewVideos: fresh,
		CheckedAt: c.now(),
	}, true
}

func (c *Checker) push(ctx context.Context, notifications []media.Notification) {
	for _, n := range notifications {
		if err := c.pusher.NotifyNewVideos(ctx, n); err != nil {
			c.logger.WarnContext(ctx, "push delivery failed",
				logging.String("subject", n.Subject),
				logging.Error(err))
		}
	}
}
