package main

import (
	"log/slog"
	"strings"
	"sync"

	"bingewatch/internal/config"
	"bingewatch/internal/fetch"
	"bingewatch/internal/imdb"
	"bingewatch/internal/logging"
	"bingewatch/internal/notifications"
	"bingewatch/internal/store"
	"bingewatch/internal/textutil"
	"bingewatch/internal/videocache"
	"bingewatch/internal/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withStore opens the series database, runs fn, and closes it again.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (c *commandContext) episodeSource() (*imdb.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := fetch.NewClient(fetch.Config{
		UserAgent:         cfg.Fetch.UserAgent,
		TimeoutSeconds:    cfg.Fetch.RequestTimeout,
		MaxAttempts:       cfg.Fetch.MaxAttempts,
		RetryDelaySeconds: cfg.Fetch.RetryDelaySeconds,
	})
	return imdb.NewSource(client, cfg.IMDB, c.ensureLogger()), nil
}

func (c *commandContext) videoSource() (*youtube.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := fetch.NewClient(fetch.Config{
		UserAgent:         cfg.Fetch.UserAgent,
		TimeoutSeconds:    cfg.Fetch.RequestTimeout,
		MaxAttempts:       cfg.Fetch.MaxAttempts,
		RetryDelaySeconds: cfg.Fetch.RetryDelaySeconds,
	})
	return youtube.NewSource(client, cfg.YouTube, c.ensureLogger()), nil
}

func (c *commandContext) videoCache() (*videocache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return videocache.New(cfg.Paths.CachePath, cfg.Cache, c.ensureLogger()), nil
}

// withChecker wires the full check workflow over an open store.
func (c *commandContext) withChecker(fn func(*notifications.Checker) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	episodes, err := c.episodeSource()
	if err != nil {
		return err
	}
	videos, err := c.videoSource()
	if err != nil {
		return err
	}
	cache, err := c.videoCache()
	if err != nil {
		return err
	}
	pusher := notifications.NewPusher(cfg.Notifications)

	return c.withStore(func(db *store.Store) error {
		checker := notifications.NewChecker(db, episodes, videos, cache, pusher, c.ensureLogger())
		return fn(checker)
	})
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}
