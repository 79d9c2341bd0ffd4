package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/maboudharam/openbento/internal/archive"
	"github.com/maboudharam/openbento/internal/assets"
	"github.com/maboudharam/openbento/internal/codegen"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/identity"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/scaffold"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

var (
	// ErrArchiveFailed wraps any failure to serialize the archive. Nothing is
	// saved when it is returned.
	ErrArchiveFailed = errors.New("export: archive serialization failed")
	// ErrSaveFailed wraps saver failures.
	ErrSaveFailed = errors.New("export: saving archive failed")
)

const (
	// AssetsDir is the archive folder that receives materialized images.
	AssetsDir = "public/assets"
	// GuidePath is the generated deployment guide.
	GuidePath = "DEPLOY.md"
)

// Service assembles a deployable project archive from a site.
type Service interface {
	Export(ctx context.Context, data site.SiteData, opts Options) (*Result, error)
}

// Materializer extracts embedded images into an archive folder.
type Materializer interface {
	Materialize(ctx context.Context, data site.SiteData, folder assets.Folder) (assets.ImageMap, assets.Report)
}

// Generator renders src/App.tsx.
type Generator interface {
	App(data site.SiteData, images assets.ImageMap, opts ...codegen.RenderOption) string
}

// Config captures archive and pipeline tuning. CompressionLevel is a flate
// level; zero keeps the archive default.
type Config struct {
	Assets           assets.Config
	Codegen          codegen.Config
	ModTime          time.Time
	CompressionLevel int
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Assets:           assets.DefaultConfig(),
		Codegen:          codegen.DefaultConfig(),
		ModTime:          archive.DefaultModTime,
		CompressionLevel: -1,
	}
}

// Dependencies lists the collaborators of the export service. Nil members are
// replaced by defaults built from Config. A nil Saver keeps the archive in
// memory only.
type Dependencies struct {
	Materializer Materializer
	Generator    Generator
	Saver        Saver
	Logger       interfaces.Logger
}

// Options narrows a single export run.
type Options struct {
	Target deploy.Target
	SiteID string
	DryRun bool
}

// FileInfo describes one archive entry.
type FileInfo struct {
	Path     string
	Size     int64
	Checksum string
	Category archive.Category
}

// Result reports the outcome of an export.
type Result struct {
	ID        uuid.UUID
	Filename  string
	Target    deploy.Target
	Archive   []byte
	SavedPath string
	Files     []FileInfo
	Images    assets.ImageMap
	Optimized []string
	Skipped   []assets.Skip
	Duration  time.Duration
	DryRun    bool
}

// NewService wires an export service with cfg and deps.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if deps.Materializer == nil {
		deps.Materializer = assets.NewMaterializer(cfg.Assets, assets.WithLogger(deps.Logger))
	}
	if deps.Generator == nil {
		deps.Generator = codegen.NewGenerator(cfg.Codegen, codegen.WithLogger(deps.Logger))
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

func (s *service) Export(ctx context.Context, data site.SiteData, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	target := opts.Target
	if target == (deploy.Target{}) {
		target = deploy.Default
	}
	data = data.Clone()
	name := data.Profile.Name
	filename := Filename(name, target)

	logger := logging.WithExportContext(s.deps.Logger, "", target.String(), name)
	logger.Info("export.start", "filename", filename, "blocks", len(data.Blocks), "dry_run", opts.DryRun)

	ctx = logging.ContextWithFields(ctx, map[string]any{"target": target.String(), "filename": filename})
	bundle := archive.New(s.archiveOptions()...)

	var folder assets.Folder
	if !opts.DryRun {
		folder = bundle.Folder(AssetsDir, archive.CategoryAsset)
	}
	images, report := s.deps.Materializer.Materialize(ctx, data, folder)
	logger.Info("export.assets",
		"mapped", len(images),
		"written", len(report.Written),
		"optimized", len(report.Optimized),
		"skipped", len(report.Skipped),
	)

	for _, file := range scaffold.Files(name) {
		bundle.AddString(file.Path, file.Content, archive.CategoryScaffold)
	}

	app := s.deps.Generator.App(data, images, codegen.WithSiteID(opts.SiteID))
	bundle.AddString(codegen.AppPath, app, archive.CategorySource)

	bundle.AddString(GuidePath, deploy.Guide(name, target), archive.CategoryDocs)
	for _, file := range deploy.Files(target) {
		bundle.AddString(file.Path, file.Content, archive.CategoryDeploy)
	}

	entries := bundle.Entries()
	result := &Result{
		ID:        identity.ExportUUID(digest(entries), target.String()),
		Filename:  filename,
		Target:    target,
		Files:     describe(entries),
		Images:    images,
		Optimized: sortedCopy(report.Optimized),
		Skipped:   sortedSkips(report.Skipped),
		DryRun:    opts.DryRun,
	}
	logger = logging.WithExportContext(logger, result.ID.String(), "", "")

	if opts.DryRun {
		result.Duration = s.now().Sub(start)
		logger.Info("export.complete", "files", len(result.Files), "duration_ms", result.Duration.Milliseconds())
		return result, nil
	}

	payload, err := bundle.Bytes()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrArchiveFailed, err)
		logger.Error("export.failed", "error", err)
		return nil, err
	}

	if s.deps.Saver != nil {
		saved, err := s.deps.Saver.Save(ctx, filename, payload)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSaveFailed, err)
			logger.Error("export.failed", "error", err)
			return nil, err
		}
		result.SavedPath = saved
	}

	result.Archive = payload
	result.Duration = s.now().Sub(start)
	logger.Info("export.complete",
		"files", len(result.Files),
		"bytes", len(payload),
		"path", result.SavedPath,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (s *service) archiveOptions() []archive.Option {
	opts := make([]archive.Option, 0, 2)
	if !s.cfg.ModTime.IsZero() {
		opts = append(opts, archive.WithModTime(s.cfg.ModTime))
	}
	if s.cfg.CompressionLevel != 0 {
		opts = append(opts, archive.WithCompressionLevel(s.cfg.CompressionLevel))
	}
	return opts
}

func describe(entries []archive.Entry) []FileInfo {
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		files = append(files, FileInfo{
			Path:     entry.Path,
			Size:     entry.Size(),
			Checksum: entry.Checksum(),
			Category: entry.Category,
		})
	}
	return files
}

// digest covers entry paths and contents, which is what the archive bytes
// are derived from under a fixed modification time.
func digest(entries []archive.Entry) string {
	hash := sha256.New()
	for _, entry := range entries {
		hash.Write([]byte(entry.Path))
		hash.Write([]byte{0})
		hash.Write([]byte(entry.Checksum()))
		hash.Write([]byte{'\n'})
	}
	return hex.EncodeToString(hash.Sum(nil))
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func sortedSkips(skips []assets.Skip) []assets.Skip {
	out := append([]assets.Skip(nil), skips...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].File < out[j].File
	})
	return out
}
