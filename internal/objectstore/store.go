// Package objectstore provides seekable access to stored media objects.
// The only implementation is filesystem-backed; the interface keeps the
// streaming path testable and leaves room for a remote store later.
package objectstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrObjectNotFound indicates the storage reference does not resolve to a
// readable object.
var ErrObjectNotFound = errors.New("object not found")

// Store exposes stored objects by their storage reference.
type Store interface {
	// Open returns seekable byte access to the object plus its size.
	// The caller owns the returned reader and must close it.
	Open(ref string) (io.ReadSeekCloser, int64, error)
	// Save streams a new object into the store and returns its size.
	Save(ref string, r io.Reader) (int64, error)
	// Remove deletes a stored object, for rollback when the catalog
	// record cannot be created after a successful Save.
	Remove(ref string) error
}

// FSStore serves objects from a single directory on local disk.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("object store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create object store directory: %w", err)
	}
	return &FSStore{root: dir}, nil
}

// Open returns seekable byte access to the object plus its size.
func (s *FSStore) Open(ref string) (io.ReadSeekCloser, int64, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
		}
		return nil, 0, fmt.Errorf("open object %s: %w", ref, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("stat object %s: %w", ref, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
	}
	return file, info.Size(), nil
}

// Save streams a new object into the store and returns its size.
func (s *FSStore) Save(ref string, r io.Reader) (int64, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return 0, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create object %s: %w", ref, err)
	}
	written, err := io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return 0, fmt.Errorf("write object %s: %w", ref, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("close object %s: %w", ref, err)
	}
	return written, nil
}

// Remove deletes a stored object.
func (s *FSStore) Remove(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
		}
		return fmt.Errorf("remove object %s: %w", ref, err)
	}
	return nil
}

// resolve maps a storage reference to a path inside the store root and
// rejects references that would escape it.
func (s *FSStore) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrObjectNotFound)
	}
	cleaned := filepath.Clean(ref)
	if cleaned != filepath.Base(cleaned) || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("%w: invalid reference %q", ErrObjectNotFound, ref)
	}
	return filepath.Join(s.root, cleaned), nil
}
