package catalog

import "time"

// Status represents the lifecycle of a video record.
type Status string

const (
	// StatusPending is the initial state set at upload time. A pending
	// video has not been analyzed yet.
	StatusPending Status = "pending"
	// StatusProcessed is the terminal state for videos that passed analysis.
	StatusProcessed Status = "processed"
	// StatusFlagged is the terminal state for videos the analyzer rejected.
	StatusFlagged Status = "flagged"
)

// Sensitivity is the content-analysis verdict attached to a video.
type Sensitivity string

const (
	SensitivityUnchecked Sensitivity = "unchecked"
	SensitivitySafe      Sensitivity = "safe"
	SensitivityUnsafe    Sensitivity = "unsafe"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusProcessed || s == StatusFlagged
}

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessed, StatusFlagged:
		return true
	}
	return false
}

// Video represents a video record persisted in SQLite.
type Video struct {
	ID          string
	Title       string
	Filename    string
	Size        int64
	Status      Status
	Sensitivity Sensitivity
	Uploader    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ObjectInfo is the subset of a record the streaming path needs.
type ObjectInfo struct {
	ID       string
	Filename string
	Size     int64
}

// Summary describes aggregated catalog counts per lifecycle state.
type Summary struct {
	Total     int
	Pending   int
	Processed int
	Flagged   int
}
