package codegen

import (
	"embed"
	"time"

	"github.com/maboudharam/openbento/internal/assets"
	"github.com/maboudharam/openbento/internal/codegen/tsx"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// AppPath is where the generated renderer lives inside the project.
const AppPath = "src/App.tsx"

// DefaultFeedProxy is the CORS proxy the page fetches channel feeds through.
const DefaultFeedProxy = "https://api.allorigins.win/raw?url="

//go:embed runtime/*.tsx
var runtimeFS embed.FS

// Config tunes the generated runtime.
type Config struct {
	// FeedProxy is prefixed to the URL encoded feed address.
	FeedProxy string
	// MaxFeedVideos caps how many feed entries a channel tile shows.
	MaxFeedVideos int
	// DefaultMapLocation is used by map tiles with no location.
	DefaultMapLocation string
	// VideoExtensions lists media references played as inline video.
	VideoExtensions []string
}

// DefaultConfig returns the stock runtime settings.
func DefaultConfig() Config {
	return Config{
		FeedProxy:          DefaultFeedProxy,
		MaxFeedVideos:      4,
		DefaultMapLocation: "Paris",
		VideoExtensions:    []string{"mp4", "webm", "ogg", "mov"},
	}
}

// Option mutates a Generator.
type Option func(*Generator)

// WithLogger overrides the generator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator synthesises the App.tsx renderer for a site. It holds no per-call
// state and is safe for concurrent use.
type Generator struct {
	cfg    Config
	logger interfaces.Logger
}

// NewGenerator builds a generator, filling unset config fields with defaults.
func NewGenerator(cfg Config, opts ...Option) *Generator {
	defaults := DefaultConfig()
	if cfg.FeedProxy == "" {
		cfg.FeedProxy = defaults.FeedProxy
	}
	if cfg.MaxFeedVideos <= 0 {
		cfg.MaxFeedVideos = defaults.MaxFeedVideos
	}
	if cfg.DefaultMapLocation == "" {
		cfg.DefaultMapLocation = defaults.DefaultMapLocation
	}
	if len(cfg.VideoExtensions) == 0 {
		cfg.VideoExtensions = defaults.VideoExtensions
	}
	g := &Generator{cfg: cfg, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// RenderOptions are per-export inputs to the generator.
type RenderOptions struct {
	// SiteID is reported in analytics payloads. Empty falls back to the
	// profile's analytics site id.
	SiteID string
}

// RenderOption mutates RenderOptions.
type RenderOption func(*RenderOptions)

// WithSiteID sets the analytics site id.
func WithSiteID(id string) RenderOption {
	return func(o *RenderOptions) {
		o.SiteID = id
	}
}

// App returns the generated renderer source. Image references are resolved
// through images; any key without an entry keeps the original reference. App
// never fails: missing optional fields fall back to their default rendering.
func (g *Generator) App(data site.SiteData, images assets.ImageMap, opts ...RenderOption) string {
	started := time.Now()
	var ro RenderOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}

	page := newPage(data, images, ro)
	source := tsx.Print(g.file(page))

	g.logger.Debug("codegen.app.generated",
		"blocks", len(page.blocks),
		"analytics", page.analytics != nil,
		"branding", page.profile.BrandingEnabled(),
		"bytes", len(source),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return source
}

func runtimeSource(name string) tsx.Raw {
	raw, err := runtimeFS.ReadFile("runtime/" + name)
	if err != nil {
		panic("codegen: missing runtime source " + name)
	}
	return tsx.Raw(raw)
}
