package objectstore_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streambox/internal/objectstore"
	"streambox/internal/testsupport"
)

func TestOpenReturnsBytesAndSize(t *testing.T) {
	dir := t.TempDir()
	data := testsupport.WriteObject(t, filepath.Join(dir, "clip.mp4"), 1000)

	store, err := objectstore.NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	rc, openSize, err := store.Open("clip.mp4")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	if openSize != 1000 {
		t.Fatalf("open size = %d, want 1000", openSize)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("object bytes differ from written bytes")
	}
}

func TestOpenMissingObject(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if _, _, err := store.Open("nope.mp4"); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if err := store.Remove("nope.mp4"); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("Remove: expected ErrObjectNotFound, got %v", err)
	}
}

func TestRemoveDeletesObject(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteObject(t, filepath.Join(dir, "clip.mp4"), 10)

	store, err := objectstore.NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if err := store.Remove("clip.mp4"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("object still present after Remove: %v", err)
	}
	if err := store.Remove("clip.mp4"); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("second Remove: expected ErrObjectNotFound, got %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	for _, ref := range []string{"../escape.mp4", "a/b.mp4", ".hidden", "", "  "} {
		if _, _, err := store.Open(ref); !errors.Is(err, objectstore.ErrObjectNotFound) {
			t.Fatalf("Open(%q): expected ErrObjectNotFound, got %v", ref, err)
		}
	}
}

func TestSaveWritesAndRefusesOverwrite(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	written, err := store.Save("new.mp4", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != int64(len("payload")) {
		t.Fatalf("written = %d, want %d", written, len("payload"))
	}

	if _, err := store.Save("new.mp4", strings.NewReader("again")); err == nil {
		t.Fatal("expected error when overwriting existing object")
	}
}
