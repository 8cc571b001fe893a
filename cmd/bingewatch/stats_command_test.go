package main

import (
	"testing"
)

func TestStatsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Tracked: 0")
	requireContains(t, out, "Entries: 0")

	if _, err := runCLI(t, env, "add", "Favorite", "tt0000001", "--score", "10"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := runCLI(t, env, "add", "Paused", "tt0000002", "--score", "8"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := runCLI(t, env, "update", "tt0000002", "--snooze"); err != nil {
		t.Fatalf("snooze: %v", err)
	}
	seedCache(t, env)

	out, err = runCLI(t, env, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Tracked: 2")
	requireContains(t, out, "Active:  1")
	requireContains(t, out, "Snoozed: 1")
	requireContains(t, out, "Average score: 9.0/10")
	requireContains(t, out, "1. Favorite (10/10)")
	requireContains(t, out, "2. Paused (8/10) (snoozed)")
	requireContains(t, out, "Entries: 2")
	requireContains(t, out, "Videos:  2")
}
