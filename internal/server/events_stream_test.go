package server_test

import (
	"bufio"
	"net/http"
	"strings"
	"testing"
	"time"

	"streambox/internal/events"
)

// readSSEFrame collects lines until the blank frame terminator.
func readSSEFrame(t *testing.T, reader *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestEventsStreamDeliversVerdicts(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/api/events", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q", got)
	}

	reader := bufio.NewReader(resp.Body)

	// The opening comment frame signals the subscription is registered.
	opening := readSSEFrame(t, reader)
	if len(opening) != 1 || opening[0] != ": connected" {
		t.Fatalf("opening frame = %v", opening)
	}

	f.hub.Publish(events.ProcessingEvent{
		VideoID:     "vid-1",
		Status:      "flagged",
		Sensitivity: "unsafe",
	})

	frame := readSSEFrame(t, reader)
	if len(frame) != 2 {
		t.Fatalf("event frame = %v", frame)
	}
	if frame[0] != "event: video_processed" {
		t.Fatalf("event line = %q", frame[0])
	}
	data := strings.TrimPrefix(frame[1], "data: ")
	for _, want := range []string{`"videoId":"vid-1"`, `"status":"flagged"`, `"sensitivity":"unsafe"`} {
		if !strings.Contains(data, want) {
			t.Fatalf("data %q missing %q", data, want)
		}
	}
}

func TestEventsStreamEndsWhenHubCloses(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/api/events", nil)
	reader := bufio.NewReader(resp.Body)
	readSSEFrame(t, reader)

	f.hub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The stream should terminate once the hub shut the channel.
		for {
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not terminate after hub close")
	}
}
