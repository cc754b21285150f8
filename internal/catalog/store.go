package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"streambox/internal/config"
)

var (
	// ErrNotFound indicates no video record exists for the given id.
	ErrNotFound = errors.New("video not found")
	// ErrNotPending indicates a verdict was applied to a video that already
	// left the pending state.
	ErrNotPending = errors.New("video is not pending")
)

// Store manages video metadata persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database in the data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the filesystem location of the catalog database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Insert creates a new pending video record and returns it.
func (s *Store) Insert(ctx context.Context, title, filename string, size int64, uploader string) (*Video, error) {
	title = strings.TrimSpace(title)
	filename = strings.TrimSpace(filename)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if filename == "" {
		return nil, errors.New("filename is required")
	}

	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (
            id, title, filename, size, status, sensitivity, uploader, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		title,
		filename,
		size,
		StatusPending,
		SensitivityUnchecked,
		uploader,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the record for the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// ObjectInfo returns the storage reference and size for the given id.
func (s *Store) ObjectInfo(ctx context.Context, id string) (*ObjectInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, filename, size FROM videos WHERE id = ?`, id)
	info := &ObjectInfo{}
	err := row.Scan(&info.ID, &info.Filename, &info.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get object info: %w", err)
	}
	return info, nil
}

// List returns records newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Video, error) {
	query := selectColumns + ` FROM videos`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// ApplyVerdict moves a pending video to a terminal state. The WHERE guard
// makes the transition exactly-once: a second verdict, or a verdict against
// an already-terminal record, returns ErrNotPending.
func (s *Store) ApplyVerdict(ctx context.Context, id string, status Status, sensitivity Sensitivity) error {
	if !status.Terminal() {
		return fmt.Errorf("verdict status %q is not terminal", status)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE videos SET status = ?, sensitivity = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		status,
		sensitivity,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("apply verdict: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply verdict rows affected: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: %s", ErrNotPending, id)
	}
	return nil
}

// Summarize returns per-status counts for the whole catalog.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM videos GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize videos: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending = count
		case StatusProcessed:
			summary.Processed = count
		case StatusFlagged:
			summary.Flagged = count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

const selectColumns = `SELECT id, title, filename, size, status, sensitivity, uploader, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	var video Video
	var createdAt, updatedAt string
	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Filename,
		&video.Size,
		&video.Status,
		&video.Sensitivity,
		&video.Uploader,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if video.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if video.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &video, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
