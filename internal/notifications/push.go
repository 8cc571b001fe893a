package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bingewatch/internal/config"
	"bingewatch/internal/media"
)

const userAgent = "BingeWatch-Go/0.1.0"

// Pusher delivers notifications to an external channel.
type Pusher interface {
	NotifyNewVideos(ctx context.Context, n media.Notification) error
	NotifyError(ctx context.Context, err error, context string) error
	Test(ctx context.Context) error
}

// NewPusher builds a pusher backed by ntfy when a topic is configured.
// When no topic is configured, a noop implementation is returned.
func NewPusher(cfg config.Notifications) Pusher {
	topic := strings.TrimSpace(cfg.NtfyTopic)
	if topic == "" {
		return NoopPusher{}
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyPusher{
		endpoint:  topicEndpoint(topic),
		client:    &http.Client{Timeout: timeout},
		newVideos: cfg.NewVideos,
		errors:    cfg.Errors,
	}
}

// topicEndpoint accepts either a full ntfy URL or a bare topic name.
func topicEndpoint(topic string) string {
	if strings.HasPrefix(topic, "http://") || strings.HasPrefix(topic, "https://") {
		return topic
	}
	return "https://ntfy.sh/" + topic
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyPusher struct {
	endpoint  string
	client    *http.Client
	newVideos bool
	errors    bool
}

func (p *ntfyPusher) NotifyNewVideos(ctx context.Context, n media.Notification) error {
	if !p.newVideos || n.Count() == 0 {
		return nil
	}

	var builder strings.Builder
	if n.Context == media.GeneralContext {
		fmt.Fprintf(&builder, "%d new video(s) for %s", n.Count(), n.Subject)
	} else {
		fmt.Fprintf(&builder, "%d new video(s) for %s %s", n.Count(), n.Subject, n.Context)
	}
	for _, video := range n.NewVideos {
		builder.WriteString("\n")
		builder.WriteString(strings.TrimSpace(video.Title))
		if url := video.URL(); url != "" {
			builder.WriteString("\n")
			builder.WriteString(url)
		}
	}

	data := payload{
		title:   fmt.Sprintf("BingeWatch - %s", n.Subject),
		message: builder.String(),
		tags:    []string{"bingewatch", "videos", "new"},
	}
	return p.send(ctx, data)
}

func (p *ntfyPusher) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !p.errors {
		return nil
	}

	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "BingeWatch - Error",
		message:  builder.String(),
		tags:     []string{"bingewatch", "error", "alert"},
		priority: "high",
	}
	return p.send(ctx, data)
}

func (p *ntfyPusher) Test(ctx context.Context) error {
	data := payload{
		title:    "BingeWatch - Test",
		message:  "Notification system test",
		tags:     []string{"bingewatch", "test"},
		priority: "low",
	}
	return p.send(ctx, data)
}

func (p *ntfyPusher) send(ctx context.Context, data payload) error {
	if p == nil || p.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NoopPusher satisfies Pusher without delivering anything.
type NoopPusher struct{}

func (NoopPusher) NotifyNewVideos(context.Context, media.Notification) error { return nil }
func (NoopPusher) NotifyError(context.Context, error, string) error          { return nil }
func (NoopPusher) Test(context.Context) error                                { return nil }
