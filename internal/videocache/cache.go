package videocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"bingewatch/internal/config"
	"bingewatch/internal/logging"
	"bingewatch/internal/media"
)

const defaultTTL = 7 * 24 * time.Hour

// Entry holds everything recorded for one (subject, context) key.
type Entry struct {
	Key          string        `json:"key"`
	VideoIDs     []string      `json:"video_ids"`
	Videos       []media.Video `json:"videos"`
	NewCount     int           `json:"new_count"`
	FirstChecked time.Time     `json:"first_checked"`
	LastChecked  time.Time     `json:"last_checked"`
}

// Cache provides thread-safe access to the seen-video cache.
type Cache struct {
	path               string
	ttl                time.Duration
	autoPruneThreshold int
	logger             *slog.Logger
	now                func() time.Time

	mu         sync.Mutex
	entries    map[string]*Entry
	memoryOnly bool
}

// New creates a cache backed by the file at path. The file is loaded
// immediately; a missing file starts empty, and a corrupt one is replaced
// on the next write. An empty path keeps the cache memory-only.
func New(path string, cfg config.Cache, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	ttl := defaultTTL
	if cfg.TTLDays > 0 {
		ttl = time.Duration(cfg.TTLDays) * 24 * time.Hour
	}

	c := &Cache{
		path:               path,
		ttl:                ttl,
		autoPruneThreshold: cfg.AutoPruneThreshold,
		logger:             logging.NewComponentLogger(logger, "videocache"),
		now:                time.Now,
		entries:            make(map[string]*Entry),
		memoryOnly:         path == "",
	}

	if path != "" {
		if err := c.load(); err != nil {
			c.logger.Warn("failed to load video cache, starting empty",
				logging.String("path", path),
				logging.Error(err))
		}
	}
	return c
}

// Key builds the cache key for a subject and context. An empty context
// means the series-wide "general" bucket.
func Key(subject, context string) string {
	if context == "" {
		context = media.GeneralContext
	}
	return subject + "|" + context
}

// NewVideos returns the subset of current whose id has never been seen for
// (subject, context), then records the whole of current as seen. The entry
// is updated even when nothing is new: ids are unioned in, lastChecked is
// refreshed, and firstChecked is set only when the entry is created. A
// video id is therefore reported at most once per key until the key is
// cleared or pruned.
func (c *Cache) NewVideos(subject, context string, current []media.Video) []media.Video {
	key := Key(subject, context)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, exists := c.entries[key]
	if !exists {
		entry = &Entry{Key: key, FirstChecked: now}
		c.entries[key] = entry
	}

	seen := make(map[string]struct{}, len(entry.VideoIDs))
	for _, id := range entry.VideoIDs {
		seen[id] = struct{}{}
	}

	var fresh []media.Video
	for _, video := range current {
		if _, ok := seen[video.ID]; ok {
			continue
		}
		seen[video.ID] = struct{}{}
		entry.VideoIDs = append(entry.VideoIDs, video.ID)
		entry.Videos = append(entry.Videos, video)
		fresh = append(fresh, video)
	}
	entry.NewCount += len(fresh)
	entry.LastChecked = now

	c.autoPruneLocked(now)
	c.saveLocked()

	return fresh
}

// SeenIDs returns the ids already recorded for a key.
func (c *Cache) SeenIDs(subject, context string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[Key(subject, context)]
	if !ok {
		return nil
	}
	ids := make([]string, len(entry.VideoIDs))
	copy(ids, entry.VideoIDs)
	return ids
}

// Entries returns a snapshot of all entries sorted by key.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// stale reports whether the entry has aged past the TTL. An entry with no
// lastChecked at all counts as stale.
func (c *Cache) stale(entry *Entry, now time.Time) bool {
	if entry.LastChecked.IsZero() {
		return true
	}
	return now.Sub(entry.LastChecked) > c.ttl
}

// Prune removes all stale entries and reports how many were dropped.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.pruneLocked(c.now())
	if removed > 0 {
		c.saveLocked()
	}
	return removed
}

func (c *Cache) pruneLocked(now time.Time) int {
	removed := 0
	for key, entry := range c.entries {
		if c.stale(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Info("pruned stale cache entries", logging.Int("removed", removed))
	}
	return removed
}

// autoPruneLocked prunes only once the cache has outgrown the configured
// threshold and at least one entry is actually stale, so small caches never
// pay for it.
func (c *Cache) autoPruneLocked(now time.Time) {
	if c.autoPruneThreshold <= 0 || len(c.entries) <= c.autoPruneThreshold {
		return
	}
	for _, entry := range c.entries {
		if c.stale(entry, now) {
			c.pruneLocked(now)
			return
		}
	}
}

// ClearKey removes one (subject, context) entry.
func (c *Cache) ClearKey(subject, context string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(subject, context)
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.saveLocked()
	return true
}

// ClearSubject removes every entry for the subject, across all contexts,
// and reports how many were dropped.
func (c *Cache) ClearSubject(subject string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := subject + "|"
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.saveLocked()
	}
	return removed
}

// Clear empties the entire cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.saveLocked()
	c.logger.Info("cleared video cache")
}

// Stats summarizes the cache for display.
type Stats struct {
	Entries     int
	Videos      int
	Path        string
	MemoryOnly  bool
	StaleCount  int
	OldestCheck time.Time
}

// Stats returns entry and video counts plus staleness information.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Entries: len(c.entries), Path: c.path, MemoryOnly: c.memoryOnly}
	for _, entry := range c.entries {
		stats.Videos += len(entry.VideoIDs)
		if c.stale(entry, now) {
			stats.StaleCount++
		}
		if stats.OldestCheck.IsZero() || entry.LastChecked.Before(stats.OldestCheck) {
			stats.OldestCheck = entry.LastChecked
		}
	}
	return stats
}

// load reads the cache document from disk into memory.
func (c *Cache) load() error {
	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]*Entry, len(entries))
	for i := range entries {
		if strings.TrimSpace(entries[i].Key) == "" {
			continue
		}
		entry := entries[i]
		c.entries[entry.Key] = &entry
	}

	c.logger.Debug("loaded video cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// saveLocked writes the cache document atomically. The caller holds the
// mutex. A failed write latches the cache into memory-only mode for the
// rest of the process instead of surfacing an error on every check.
func (c *Cache) saveLocked() {
	if c.memoryOnly {
		return
	}
	if err := c.write(); err != nil {
		c.memoryOnly = true
		c.logger.Warn("failed to persist video cache, continuing in memory only",
			logging.String("path", c.path),
			logging.Error(err))
	}
}

func (c *Cache) write() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err == nil {
		defer lock.Unlock()
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
