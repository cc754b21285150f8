package testsupport

import (
	"context"
	"testing"

	"streambox/internal/catalog"
	"streambox/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedVideo inserts a pending video record for tests using the provided store.
func SeedVideo(t testing.TB, store *catalog.Store, title, filename string, size int64) *catalog.Video {
	t.Helper()

	video, err := store.Insert(context.Background(), title, filename, size, "tester")
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return video
}
