package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"streambox/internal/config"
)

const userAgent = "Streambox/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyUploadReceived(ctx context.Context, title string) error
	NotifyAnalysisCompleted(ctx context.Context, title, status string) error
	NotifyVideoFlagged(ctx context.Context, title string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyUploadReceived(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Streambox - Upload Received",
		message: fmt.Sprintf("Received upload: %s", title),
		tags:    []string{"streambox", "upload", "received"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, title, status string) error {
	title = strings.TrimSpace(title)
	status = strings.TrimSpace(status)
	if status == "" {
		status = "unknown"
	}
	data := payload{
		title:   "Streambox - Analysis Complete",
		message: fmt.Sprintf("Analysis complete: %s (%s)", title, status),
		tags:    []string{"streambox", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVideoFlagged(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:    "Streambox - Video Flagged",
		message:  fmt.Sprintf("Flagged as unsafe: %s\nManual review required", title),
		tags:     []string{"streambox", "flagged", "review"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
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
		title:    "Streambox - Error",
		message:  builder.String(),
		tags:     []string{"streambox", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Streambox - Test",
		message:  "Notification system test",
		tags:     []string{"streambox", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
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

	resp, err := n.client.Do(req)
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

type noopService struct{}

func (noopService) NotifyUploadReceived(context.Context, string) error            { return nil }
func (noopService) NotifyAnalysisCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyVideoFlagged(context.Context, string) error              { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
