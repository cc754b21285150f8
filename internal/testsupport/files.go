package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteObject fills the target path with size bytes of a repeating pattern
// so range reads can be verified byte-for-byte. A size <= 0 writes a single
// byte.
func WriteObject(t testing.TB, path string, size int64) []byte {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}
