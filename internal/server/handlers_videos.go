package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"streambox/internal/analysis"
	"streambox/internal/api"
	"streambox/internal/catalog"
	"streambox/internal/logging"
)

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const multipartMemoryLimit = 32 << 20

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVideoList(w, r)
	case http.MethodPost:
		s.handleUpload(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleVideoList(w http.ResponseWriter, r *http.Request) {
	var statuses []catalog.Status
	for _, value := range r.URL.Query()["status"] {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		status := catalog.Status(trimmed)
		if !catalog.ValidStatus(status) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", trimmed))
			return
		}
		statuses = append(statuses, status)
	}

	videos, err := s.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := api.VideoListResponse{Videos: make([]api.Video, 0, len(videos))}
	for _, video := range videos {
		payload.Videos = append(payload.Videos, api.FromVideo(video))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleVideoItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	video, err := s.store.GetByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.VideoResponse{Video: api.FromVideo(video)})
}

// handleUpload accepts a multipart upload, stores the object, creates the
// pending catalog record, and starts the analysis job. The response returns
// as soon as the record exists; the analysis outcome arrives later over the
// event channel.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Server.MaxUploadMiB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	storageRef := buildStorageRef(header.Filename)
	size, err := s.objects.Save(storageRef, file)
	if err != nil {
		s.logger.Error("failed to store upload", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = deriveTitle(header.Filename)
	}
	uploader := strings.TrimSpace(r.FormValue("uploader"))

	video, err := s.store.Insert(r.Context(), title, storageRef, size, uploader)
	if err != nil {
		s.logger.Error("failed to create video record", logging.Error(err))
		// Roll the stored object back so failed uploads leave nothing behind.
		if rerr := s.objects.Remove(storageRef); rerr != nil {
			s.logger.Warn("failed to remove orphaned object",
				logging.String("storage_ref", storageRef),
				logging.Error(rerr))
		}
		s.writeError(w, http.StatusInternalServerError, "failed to create video record")
		return
	}

	s.worker.Enqueue(analysis.Job{
		VideoID:    video.ID,
		StorageRef: video.Filename,
		Title:      video.Title,
	})

	if s.notifier != nil {
		if err := s.notifier.NotifyUploadReceived(r.Context(), video.Title); err != nil {
			s.logger.Warn("failed to send upload notification", logging.Error(err))
		}
	}

	s.logger.Info("upload accepted",
		logging.VideoID(video.ID),
		logging.String("storage_ref", video.Filename),
		logging.Int64("size", size))
	s.writeJSON(w, http.StatusCreated, api.VideoResponse{Video: api.FromVideo(video)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summary, err := s.store.Summarize(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:     true,
		PID:         os.Getpid(),
		CatalogPath: s.store.Path(),
		Subscribers: s.hub.SubscriberCount(),
		Total:       summary.Total,
		Pending:     summary.Pending,
		Processed:   summary.Processed,
		Flagged:     summary.Flagged,
	})
}

// buildStorageRef derives the stored filename for an upload: a timestamp
// prefix for uniqueness plus the client filename with whitespace collapsed.
func buildStorageRef(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	base = strings.Join(strings.Fields(base), "-")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), base)
}
