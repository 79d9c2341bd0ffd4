package assets

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maboudharam/openbento/internal/archive"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// AvatarKey is the image map key of the profile avatar.
const AvatarKey = "profile_avatar"

// PublicPrefix is the URL prefix under which exported assets are served.
const PublicPrefix = "/assets/"

// BlockKey returns the image map key of a block's media.
func BlockKey(id string) string {
	return "block_" + id
}

// ImageMap maps canonical asset keys to the public path of the exported file.
type ImageMap map[string]string

// Resolve returns the mapped path for key, or fallback when key has no entry.
func (m ImageMap) Resolve(key, fallback string) string {
	if path, ok := m[key]; ok && path != "" {
		return path
	}
	return fallback
}

// Folder receives materialized files. Implementations must accept concurrent
// writes to distinct names.
type Folder interface {
	File(name string, data []byte)
}

// Config tunes optimized-variant generation.
type Config struct {
	WebP        bool
	Quality     float64
	Concurrency int
}

// DefaultConfig enables WebP at the default quality.
func DefaultConfig() Config {
	return Config{WebP: true, Quality: DefaultWebPQuality}
}

// Skip records an asset, or its optimized variant, that was left out.
type Skip struct {
	Key    string
	File   string
	Reason string
}

// Report summarizes one materialization run.
type Report struct {
	Written   []string
	Optimized []string
	Skipped   []Skip
}

type Option func(*Materializer)

// WithTranscoder replaces the default WebP codec.
func WithTranscoder(t Transcoder) Option {
	return func(m *Materializer) {
		if t != nil {
			m.transcoder = t
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Materializer extracts embedded images from a site into an archive folder.
type Materializer struct {
	cfg        Config
	transcoder Transcoder
	logger     interfaces.Logger
}

func NewMaterializer(cfg Config, opts ...Option) *Materializer {
	m := &Materializer{
		cfg:        cfg,
		transcoder: NewCodec(nil),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

type candidate struct {
	key  string
	name string
	ref  string
}

// Materialize writes every embedded image of data into folder and returns the
// mapping from canonical key to public path. A nil folder is a dry run: the
// mapping is computed but nothing is written or transcoded.
//
// Optimized siblings are transcoded concurrently and Materialize returns only
// once all of them have settled. Failures are logged and reported, never
// returned, and never change the mapping.
func (m *Materializer) Materialize(ctx context.Context, data site.SiteData, folder Folder) (ImageMap, Report) {
	logger := m.logger.WithContext(ctx)
	images := ImageMap{}
	report := Report{}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	if m.cfg.Concurrency > 0 {
		group.SetLimit(m.cfg.Concurrency)
	}

	for _, c := range collect(data) {
		ext := ExtensionOf(c.ref)
		filename := c.name + "." + ext
		if !archive.IsFileName(filename) {
			logger.Warn("asset.unsafe_name", "asset_key", c.key)
			mu.Lock()
			report.Skipped = append(report.Skipped, Skip{Key: c.key, Reason: "unsafe block id"})
			mu.Unlock()
			continue
		}
		payload, ok := Decode(c.ref)
		if !ok {
			logger.Warn("asset.decode_failed", "asset_key", c.key)
			mu.Lock()
			report.Skipped = append(report.Skipped, Skip{Key: c.key, Reason: "malformed data uri"})
			mu.Unlock()
			continue
		}

		images[c.key] = PublicPrefix + filename

		if folder == nil {
			continue
		}
		folder.File(filename, payload.Data)
		mu.Lock()
		report.Written = append(report.Written, filename)
		mu.Unlock()

		if !m.cfg.WebP || !IsConvertible(ext) {
			continue
		}

		key, ref, optimized := c.key, c.ref, c.name+"."+OptimizedExtension
		group.Go(func() error {
			out, ok := m.transcoder.Transcode(groupCtx, ref, m.cfg.Quality)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				logger.Warn("asset.transcode_failed", "asset_key", key, "file", optimized)
				report.Skipped = append(report.Skipped, Skip{Key: key, File: optimized, Reason: "transcode failed"})
				return nil
			}
			folder.File(optimized, out)
			report.Optimized = append(report.Optimized, optimized)
			return nil
		})
	}

	// Tasks never return errors. Wait only joins them.
	_ = group.Wait()

	logger.Debug("asset.materialized",
		"mapped", len(images),
		"optimized", len(report.Optimized),
		"skipped", len(report.Skipped),
	)
	return images, report
}

func collect(data site.SiteData) []candidate {
	out := make([]candidate, 0, len(data.Blocks)+1)
	if IsEmbedded(data.Profile.AvatarURL) {
		out = append(out, candidate{key: AvatarKey, name: "avatar", ref: data.Profile.AvatarURL})
	}
	for _, block := range data.Blocks {
		if IsEmbedded(block.ImageURL) {
			out = append(out, candidate{key: BlockKey(block.ID), name: "block-" + block.ID, ref: block.ImageURL})
		}
	}
	return out
}
