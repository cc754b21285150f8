package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"streambox/internal/notifications"
	"streambox/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifyUploadReceived(context.Background(), "Example"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsHeadersAndBody(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	if err := svc.NotifyVideoFlagged(context.Background(), "bad-clip.mp4"); err != nil {
		t.Fatalf("NotifyVideoFlagged failed: %v", err)
	}
	if got.title != "Streambox - Video Flagged" {
		t.Fatalf("title = %q", got.title)
	}
	if got.tags != "streambox,flagged,review" {
		t.Fatalf("tags = %q", got.tags)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
	if got.body == "" {
		t.Fatal("expected non-empty body")
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	err := svc.NotifyError(context.Background(), errors.New("boom"), "analysis")
	if err == nil {
		t.Fatal("expected error from failing ntfy endpoint")
	}
}
