package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var errFilenameRequired = errors.New("export: filename is required")

// Saver delivers a serialized archive and returns where it ended up.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// DirSaver writes archives into a directory. Files appear atomically: the
// archive is written to a temporary sibling and renamed into place, so a
// failed save never leaves a partial zip behind.
type DirSaver struct {
	Dir string
}

func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

func (s *DirSaver) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", errFilenameRequired
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("export: stage %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("export: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("export: close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("export: chmod %s: %w", name, err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		cleanup()
		return "", fmt.Errorf("export: rename %s: %w", name, err)
	}
	return dest, nil
}

// MemorySaver keeps saved archives in memory. It is meant for tests and for
// callers that stream the result themselves.
type MemorySaver struct {
	Files map[string][]byte
}

func (s *MemorySaver) Save(_ context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", errFilenameRequired
	}
	if s.Files == nil {
		s.Files = map[string][]byte{}
	}
	s.Files[filename] = append([]byte(nil), data...)
	return filename, nil
}
