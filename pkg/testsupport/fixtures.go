package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFixture writes content to name inside a fresh temporary directory and
// returns the file path.
func WriteFixture(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// ReadFixture returns the contents of path or fails tb.
func ReadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
