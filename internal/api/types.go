// Package api defines the wire types shared by the daemon's HTTP surface
// and the CLI client.
package api

import (
	"time"

	"streambox/internal/catalog"
)

// Video is the wire representation of a catalog record.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	Status      string    `json:"status"`
	Sensitivity string    `json:"sensitivity"`
	Uploader    string    `json:"uploader,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromVideo converts a catalog record to its wire form.
func FromVideo(v *catalog.Video) Video {
	return Video{
		ID:          v.ID,
		Title:       v.Title,
		Filename:    v.Filename,
		Size:        v.Size,
		Status:      string(v.Status),
		Sensitivity: string(v.Sensitivity),
		Uploader:    v.Uploader,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// VideoListResponse is the payload of GET /api/videos.
type VideoListResponse struct {
	Videos []Video `json:"videos"`
}

// VideoResponse is the payload of GET /api/videos/{id} and POST /api/videos.
type VideoResponse struct {
	Video Video `json:"video"`
}

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	Running     bool   `json:"running"`
	PID         int    `json:"pid"`
	CatalogPath string `json:"catalogPath"`
	Subscribers int    `json:"subscribers"`
	Total       int    `json:"total"`
	Pending     int    `json:"pending"`
	Processed   int    `json:"processed"`
	Flagged     int    `json:"flagged"`
}

// ErrorResponse is the error payload for non-2xx API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
