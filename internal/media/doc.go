// Package media defines the core domain types shared across the pipeline:
// episodes, episode codes, discovered videos, and notifications.
//
// Episode ordering is defined exclusively by the (season, episode) pair and
// is the single source of truth for "newer than" comparisons. Episode codes
// use the canonical zero-padded form S01E05; the sentinel S00E00 means
// "never watched". Video identity is the video ID alone; title drift between
// runs does not create a new video.
package media
