package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"streambox/internal/catalog"
	"streambox/internal/logging"
	"streambox/internal/objectstore"
	"streambox/internal/stream"
)

// handleStream serves GET /stream/{id} with partial-content support. The
// object on disk is the authority for length; the catalog only maps the id
// to its storage reference.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/stream/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}

	info, err := s.store.ObjectInfo(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	src, size, err := s.objects.Open(info.Filename)
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to open object", logging.VideoID(id), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to open object")
		return
	}
	defer src.Close()

	plan, err := stream.ParseRange(r.Header.Get("Range"), size)
	switch {
	case errors.Is(err, stream.ErrMalformedRange):
		s.writeError(w, http.StatusBadRequest, "malformed range header")
		return
	case errors.Is(err, stream.ErrUnsatisfiableRange):
		stream.WriteUnsatisfiable(w, size)
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.Method == http.MethodHead {
		stream.RespondHead(w, size, plan)
		return
	}

	if err := stream.Respond(r.Context(), w, src, size, plan); err != nil {
		// Headers are already written; a failed copy usually means the
		// client went away mid-transfer.
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("stream aborted by client", logging.VideoID(id))
			return
		}
		s.logger.Warn("stream copy failed", logging.VideoID(id), logging.Error(err))
	}
}
