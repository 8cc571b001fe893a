// Package notifications orchestrates the check workflow: find new episodes
// for each tracked series, search for related videos, and funnel the
// results through the freshness cache so only never-before-seen videos are
// reported.
//
// Results can additionally be pushed to ntfy when a topic is configured;
// without one the pusher gracefully degrades to a no-op. All workflow code
// depends only on the small Pusher interface.
package notifications
