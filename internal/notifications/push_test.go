package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bingewatch/internal/config"
	"bingewatch/internal/media"
	"bingewatch/internal/notifications"
)

func TestNewPusherReturnsNoopWhenTopicMissing(t *testing.T) {
	pusher := notifications.NewPusher(config.Notifications{NtfyTopic: "", NewVideos: true})
	n := media.Notification{Subject: "Severance", Context: "S02E01", NewVideos: []media.Video{{ID: "aaaaaaaaaaa"}}}
	if err := pusher.NotifyNewVideos(context.Background(), n); err != nil {
		t.Fatalf("expected noop pusher to return nil, got %v", err)
	}
}

func TestNtfyPusherSendsNewVideoNotification(t *testing.T) {
	var (
		gotTitle string
		gotTags  string
		gotBody  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	pusher := notifications.NewPusher(config.Notifications{
		NtfyTopic:      server.URL,
		RequestTimeout: 5,
		NewVideos:      true,
	})
	n := media.Notification{
		Subject: "Severance",
		Context: "S02E01",
		NewVideos: []media.Video{
			{ID: "aaaaaaaaaaa", Title: "Season 2 Trailer"},
		},
	}
	if err := pusher.NotifyNewVideos(context.Background(), n); err != nil {
		t.Fatalf("NotifyNewVideos: %v", err)
	}
	if gotTitle != "BingeWatch - Severance" {
		t.Fatalf("title = %q", gotTitle)
	}
	if gotTags != "bingewatch,videos,new" {
		t.Fatalf("tags = %q", gotTags)
	}
	if !strings.Contains(gotBody, "1 new video(s) for Severance S02E01") {
		t.Fatalf("body missing summary line: %q", gotBody)
	}
	if !strings.Contains(gotBody, "Season 2 Trailer") || !strings.Contains(gotBody, "watch?v=aaaaaaaaaaa") {
		t.Fatalf("body missing video details: %q", gotBody)
	}
}

func TestNtfyPusherRespectsNewVideosFlag(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	pusher := notifications.NewPusher(config.Notifications{
		NtfyTopic: server.URL,
		NewVideos: false,
		Errors:    true,
	})
	n := media.Notification{Subject: "Severance", Context: "S02E01", NewVideos: []media.Video{{ID: "aaaaaaaaaaa"}}}
	if err := pusher.NotifyNewVideos(context.Background(), n); err != nil {
		t.Fatalf("NotifyNewVideos: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no request when new-video pushes are disabled, got %d", requests)
	}
}

func TestNtfyPusherErrorNotification(t *testing.T) {
	var (
		gotPriority string
		gotBody     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	pusher := notifications.NewPusher(config.Notifications{NtfyTopic: server.URL, Errors: true})
	if err := pusher.NotifyError(context.Background(), io.ErrUnexpectedEOF, "episode check"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if gotPriority != "high" {
		t.Fatalf("priority = %q", gotPriority)
	}
	if !strings.Contains(gotBody, "Error with episode check") {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestNtfyPusherReportsServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	pusher := notifications.NewPusher(config.Notifications{NtfyTopic: server.URL})
	err := pusher.Test(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error missing status code: %v", err)
	}
}

func TestTopicWithoutSchemeTargetsNtfySh(t *testing.T) {
	// A bare topic cannot be exercised against a test server, but the
	// constructor must still accept it without error.
	pusher := notifications.NewPusher(config.Notifications{NtfyTopic: "bingewatch-alerts", NewVideos: true})
	if _, ok := pusher.(notifications.NoopPusher); ok {
		t.Fatal("bare topic should produce a real pusher")
	}
}
