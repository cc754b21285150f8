package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"streambox/internal/events"
	"streambox/internal/logging"
)

// keepAliveInterval paces SSE comment frames so intermediaries keep idle
// connections open and dead clients are discovered.
const keepAliveInterval = 15 * time.Second

// handleEvents serves GET /api/events as a server-sent event stream. Each
// processing verdict arrives as an event named after its topic with a JSON
// payload. There is no replay: subscribers only see verdicts committed
// while they are connected.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			if err := writeEvent(w, event); err != nil {
				s.logger.Debug("event subscriber went away", logging.Error(err))
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event events.ProcessingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", events.TopicVideoProcessed, data)
	return err
}
