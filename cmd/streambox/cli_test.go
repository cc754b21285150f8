package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streambox/internal/api"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output %q does not mention %q", out, target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "api_bind") {
		t.Fatal("sample config missing api_bind key")
	}

	// A second init must refuse to overwrite.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("config init overwrote an existing file")
	}
}

func TestConfigPathPrintsDefault(t *testing.T) {
	out, err := runCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("streambox", "config.toml")) {
		t.Fatalf("unexpected default path: %q", out)
	}
}

func TestStatusCommandRendersDaemonState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.StatusResponse{
			Running: true,
			PID:     4242,
			Total:   3,
			Pending: 1,
		})
	}))
	defer ts.Close()

	addr := strings.TrimPrefix(ts.URL, "http://")
	out, err := runCommand(t, "--address", addr, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"running", "4242", "3 total", "1 pending"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output %q missing %q", out, want)
		}
	}
}

func TestVideosListRendersTable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("status"); got != "flagged" {
			t.Errorf("status query = %q, want flagged", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.VideoListResponse{Videos: []api.Video{{
			ID:          "vid-1",
			Title:       "Suspicious Clip",
			Status:      "flagged",
			Sensitivity: "unsafe",
			Size:        2048,
		}}})
	}))
	defer ts.Close()

	addr := strings.TrimPrefix(ts.URL, "http://")
	out, err := runCommand(t, "--address", addr, "videos", "list", "--status", "flagged")
	if err != nil {
		t.Fatalf("videos list failed: %v", err)
	}
	for _, want := range []string{"Suspicious Clip", "flagged", "unsafe", "2.0 KiB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output %q missing %q", out, want)
		}
	}
}

func TestVideosListEmptyCatalog(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.VideoListResponse{})
	}))
	defer ts.Close()

	addr := strings.TrimPrefix(ts.URL, "http://")
	out, err := runCommand(t, "--address", addr, "videos", "list")
	if err != nil {
		t.Fatalf("videos list failed: %v", err)
	}
	if !strings.Contains(out, "No videos") {
		t.Fatalf("unexpected empty-catalog output: %q", out)
	}
}

func TestErrorResponseSurfacesMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "video not found"})
	}))
	defer ts.Close()

	addr := strings.TrimPrefix(ts.URL, "http://")
	_, err := runCommand(t, "--address", addr, "videos", "show", "missing-id")
	if err == nil || !strings.Contains(err.Error(), "video not found") {
		t.Fatalf("expected daemon error message, got %v", err)
	}
}
