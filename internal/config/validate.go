package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEndpoints() error {
	if c.IMDB.BaseURL == "" {
		return errors.New("imdb.base_url must be set")
	}
	if c.IMDB.MaxEmptySeasons < 1 {
		return errors.New("imdb.max_empty_seasons must be at least 1")
	}
	if c.IMDB.MaxSeasons < 1 {
		return errors.New("imdb.max_seasons must be at least 1")
	}
	if c.YouTube.BaseURL == "" {
		return errors.New("youtube.base_url must be set")
	}
	if c.YouTube.MaxResults < 1 {
		return errors.New("youtube.max_results must be at least 1")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.RequestTimeout < 1 {
		return errors.New("fetch.request_timeout must be at least 1 second")
	}
	if c.Fetch.MaxAttempts < 1 {
		return errors.New("fetch.max_attempts must be at least 1")
	}
	if c.Fetch.RetryDelaySeconds < 0 {
		return errors.New("fetch.retry_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLDays < 1 {
		return errors.New("cache.ttl_days must be at least 1")
	}
	if c.Cache.AutoPruneThreshold < 0 {
		return errors.New("cache.auto_prune_threshold must not be negative")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 1 {
		return errors.New("notifications.request_timeout must be at least 1 second")
	}
	if c.Notifications.MaxEpisodesPerSeries < 1 {
		return errors.New("notifications.max_episodes_per_series must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
