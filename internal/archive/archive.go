package archive

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

var (
	ErrInvalidPath = errors.New("archive: invalid path")
	ErrEmpty       = errors.New("archive: no files")
)

// Category groups entries by the stage that produced them.
type Category string

const (
	CategoryScaffold Category = "scaffold"
	CategorySource   Category = "source"
	CategoryAsset    Category = "asset"
	CategoryDeploy   Category = "deploy"
	CategoryDocs     Category = "docs"
)

// DefaultModTime stamps every entry so identical inputs give identical bytes.
var DefaultModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one file placed in the archive.
type Entry struct {
	Path     string
	Content  []byte
	Category Category
}

// Size returns the uncompressed length of the entry.
func (e Entry) Size() int64 {
	return int64(len(e.Content))
}

// Checksum returns the hex sha256 of the entry content.
func (e Entry) Checksum() string {
	sum := sha256.Sum256(e.Content)
	return hex.EncodeToString(sum[:])
}

type Option func(*Archive)

// WithModTime overrides the timestamp written for every entry.
func WithModTime(t time.Time) Option {
	return func(a *Archive) {
		if !t.IsZero() {
			a.modTime = t
		}
	}
}

// WithCompressionLevel sets the deflate level (flate.BestSpeed through
// flate.BestCompression).
func WithCompressionLevel(level int) Option {
	return func(a *Archive) {
		a.level = level
	}
}

// Archive is an in-memory zip under construction. It is safe for concurrent
// writers; one export owns one Archive.
type Archive struct {
	mu      sync.Mutex
	entries map[string]Entry
	errs    []error
	modTime time.Time
	level   int
}

func New(opts ...Option) *Archive {
	a := &Archive{
		entries: map[string]Entry{},
		modTime: DefaultModTime,
		level:   flate.DefaultCompression,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Add places content at name, replacing any previous entry. Invalid names are
// recorded and surface from Bytes.
func (a *Archive) Add(name string, content []byte, category Category) {
	clean, err := cleanPath(name)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.errs = append(a.errs, err)
		return
	}
	a.entries[clean] = Entry{
		Path:     clean,
		Content:  append([]byte(nil), content...),
		Category: category,
	}
}

func (a *Archive) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, err)
}

// AddString is Add for text content.
func (a *Archive) AddString(name, content string, category Category) {
	a.Add(name, []byte(content), category)
}

// Folder returns a handle that places files under prefix.
func (a *Archive) Folder(prefix string, category Category) *Folder {
	return &Folder{archive: a, prefix: strings.Trim(prefix, "/"), category: category}
}

// Has reports whether an entry exists at name.
func (a *Archive) Has(name string) bool {
	clean, err := cleanPath(name)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.entries[clean]
	return ok
}

// Get returns the entry at name.
func (a *Archive) Get(name string) (Entry, bool) {
	clean, err := cleanPath(name)
	if err != nil {
		return Entry{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.entries[clean]
	return entry, ok
}

// Entries returns every entry sorted by path.
func (a *Archive) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, 0, len(a.entries))
	for _, entry := range a.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Bytes serializes the archive. Any placement error recorded earlier fails
// the whole serialization.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo streams the zip to w in path order.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	a.mu.Lock()
	placementErr := errors.Join(a.errs...)
	a.mu.Unlock()
	if placementErr != nil {
		return 0, placementErr
	}

	entries := a.Entries()
	if len(entries) == 0 {
		return 0, ErrEmpty
	}

	counter := &countingWriter{w: w}
	zw := zip.NewWriter(counter)
	level := a.level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.Path,
			Method:   zip.Deflate,
			Modified: a.modTime,
		}
		header.SetMode(0o644)
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return counter.n, fmt.Errorf("archive: create %s: %w", entry.Path, err)
		}
		if _, err := fw.Write(entry.Content); err != nil {
			return counter.n, fmt.Errorf("archive: write %s: %w", entry.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return counter.n, fmt.Errorf("archive: finalize: %w", err)
	}
	return counter.n, nil
}

// Folder places files below a fixed prefix.
type Folder struct {
	archive  *Archive
	prefix   string
	category Category
}

// File adds name below the folder prefix. name must be a single path
// element; anything else is recorded as an error and nothing is added.
func (f *Folder) File(name string, data []byte) {
	if !IsFileName(name) {
		f.archive.fail(fmt.Errorf("%w: %q is not a file name in %s", ErrInvalidPath, name, f.prefix))
		return
	}
	f.archive.Add(path.Join(f.prefix, name), data, f.category)
}

// IsFileName reports whether name is usable as one path element: non-empty,
// without separators and without "..".
func IsFileName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != "." && !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// Path returns the archive path name would be stored at.
func (f *Folder) Path(name string) string {
	return path.Join(f.prefix, name)
}

func cleanPath(name string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidPath)
	}
	clean := path.Clean(strings.TrimLeft(trimmed, "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the archive root", ErrInvalidPath, name)
	}
	return clean, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
