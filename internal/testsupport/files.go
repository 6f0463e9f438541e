package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gamelxrd/internal/media"
)

// WriteDescriptor encodes d as a descriptor file under dir and returns its path.
func WriteDescriptor(t testing.TB, dir, name string, d media.Descriptor) string {
	t.Helper()

	data, err := media.Encode(d)
	if err != nil {
		t.Fatalf("encode descriptor: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
