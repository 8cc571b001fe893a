// Package videocache persists which videos have already been reported for a
// series or episode, so repeated checks only surface genuinely new results.
//
// Entries are keyed by "subject|context" where context is an episode code or
// the literal "general". The cache is a single JSON document rewritten
// wholesale on every mutation; a corrupt or unreadable file starts the
// process with an empty cache, and a failed write degrades the process to
// memory-only operation instead of crashing.
package videocache
