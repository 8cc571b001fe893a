package config

const (
	defaultDataDir             = "~/.local/share/bingewatch"
	defaultLogDir              = "~/.local/share/bingewatch/logs"
	defaultIMDBBaseURL         = "https://www.imdb.com"
	defaultIMDBMaxEmptySeasons = 2
	defaultIMDBMaxSeasons      = 100
	defaultYouTubeBaseURL      = "https://www.youtube.com"
	defaultYouTubeMaxResults   = 5
	defaultUserAgent           = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	defaultRequestTimeout      = 15
	defaultMaxAttempts         = 3
	defaultRetryDelaySeconds   = 1
	defaultCacheTTLDays        = 7
	defaultAutoPruneThreshold  = 50
	defaultNotifyTimeout       = 10
	defaultMaxEpisodes         = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		IMDB: IMDB{
			BaseURL:         defaultIMDBBaseURL,
			MaxEmptySeasons: defaultIMDBMaxEmptySeasons,
			MaxSeasons:      defaultIMDBMaxSeasons,
		},
		YouTube: YouTube{
			BaseURL:    defaultYouTubeBaseURL,
			MaxResults: defaultYouTubeMaxResults,
		},
		Fetch: Fetch{
			UserAgent:         defaultUserAgent,
			RequestTimeout:    defaultRequestTimeout,
			MaxAttempts:       defaultMaxAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
		},
		Cache: Cache{
			TTLDays:            defaultCacheTTLDays,
			AutoPruneThreshold: defaultAutoPruneThreshold,
		},
		Notifications: Notifications{
			RequestTimeout:       defaultNotifyTimeout,
			MaxEpisodesPerSeries: defaultMaxEpisodes,
			NewVideos:            true,
			Errors:               true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
