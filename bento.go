package openbento

import (
	"context"
	"fmt"
	"strings"

	"github.com/maboudharam/openbento/internal/assets"
	"github.com/maboudharam/openbento/internal/codegen"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/logging/console"
	"github.com/maboudharam/openbento/internal/logging/gologger"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/internal/sites"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// SiteData is the exported site model.
type SiteData = site.SiteData

// Document is a site document as read from disk.
type Document = site.Document

// Target selects the deployment platform of an export.
type Target = deploy.Target

// ExportService exports the archive assembly contract.
type ExportService = export.Service

// ExportOptions narrows a single export.
type ExportOptions = export.Options

// ExportResult reports the outcome of an export.
type ExportResult = export.Result

// SiteRepository exports the saved-bento store contract.
type SiteRepository = sites.Repository

// Option customises module construction.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider   interfaces.LoggerProvider
	saver      export.Saver
	saverSet   bool
	repository sites.Repository
	transcoder assets.Transcoder
}

// WithLoggerProvider replaces the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithSaver replaces the directory saver. A nil saver keeps archives in memory.
func WithSaver(saver export.Saver) Option {
	return func(o *moduleOptions) {
		o.saver = saver
		o.saverSet = true
	}
}

// WithRepository replaces the store opened from the storage config.
func WithRepository(repo sites.Repository) Option {
	return func(o *moduleOptions) {
		o.repository = repo
	}
}

// WithTranscoder replaces the WebP codec.
func WithTranscoder(transcoder assets.Transcoder) Option {
	return func(o *moduleOptions) {
		o.transcoder = transcoder
	}
}

// Module wires the exporter, the saved-bento store and logging from one Config.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	exporter export.Service
	sites    sites.Repository
	close    func() error
}

// New validates cfg and builds a module.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	exportCfg := ExportServiceConfig(cfg)
	saver := options.saver
	if !options.saverSet {
		saver = export.NewDirSaver(cfg.Export.OutputDir)
	}
	assetsLogger := logging.AssetsLogger(provider)
	materializerOpts := []assets.Option{assets.WithLogger(assetsLogger)}
	if options.transcoder != nil {
		materializerOpts = append(materializerOpts, assets.WithTranscoder(options.transcoder))
	}

	module := &Module{
		cfg:      cfg,
		provider: provider,
		close:    func() error { return nil },
		exporter: export.NewService(exportCfg, export.Dependencies{
			Materializer: assets.NewMaterializer(exportCfg.Assets, materializerOpts...),
			Generator:    codegen.NewGenerator(exportCfg.Codegen, codegen.WithLogger(logging.CodegenLogger(provider))),
			Saver:        saver,
			Logger:       logging.ExportLogger(provider),
		}),
	}

	if options.repository != nil {
		module.sites = options.repository
		return module, nil
	}
	store, err := sites.Open(ctx, cfg.Storage, logging.SitesLogger(provider))
	if err != nil {
		return nil, err
	}
	module.sites = store
	module.close = store.Close
	return module, nil
}

// ExportServiceConfig maps the runtime config onto the export pipeline settings.
func ExportServiceConfig(cfg Config) export.Config {
	out := export.DefaultConfig()
	out.Assets.WebP = cfg.Export.WebP
	if cfg.Export.WebPQuality > 0 {
		out.Assets.Quality = cfg.Export.WebPQuality
	}
	out.Assets.Concurrency = cfg.Export.Workers
	if proxy := strings.TrimSpace(cfg.Export.FeedProxy); proxy != "" {
		out.Codegen.FeedProxy = proxy
	}
	if cfg.Export.MaxFeedVideos > 0 {
		out.Codegen.MaxFeedVideos = cfg.Export.MaxFeedVideos
	}
	return out
}

// NewLoggerProvider builds the provider named by cfg. An empty provider
// selects the console logger.
func NewLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// Config returns the validated configuration.
func (m *Module) Config() Config { return m.cfg }

// Export returns the export service.
func (m *Module) Export() ExportService { return m.exporter }

// Sites returns the saved-bento store.
func (m *Module) Sites() SiteRepository { return m.sites }

// Logger returns a module logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// LoggerProvider exposes the configured provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider { return m.provider }

// DefaultTarget returns the configured default deployment target.
func (m *Module) DefaultTarget() Target {
	// Validate in New already accepted the target.
	target, _ := m.cfg.Export.ParsedTarget()
	return target
}

// Close releases the saved-bento store.
func (m *Module) Close() error {
	if m == nil || m.close == nil {
		return nil
	}
	return m.close()
}
