package openbento_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maboudharam/openbento"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/logging/gologger"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/internal/sites"
)

type stubTranscoder struct{}

func (stubTranscoder) Transcode(context.Context, string, float64) ([]byte, bool) {
	return []byte("RIFF"), true
}

func sampleSite() openbento.SiteData {
	return site.SiteData{
		Profile: site.Profile{Name: "Jane Doe"},
		Blocks: []site.Block{{
			ID:      "b1",
			Type:    site.BlockLink,
			Title:   "Home",
			Content: "https://x.com",
			ColSpan: 3,
			RowSpan: 3,
		}},
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Export.Target = "nowhere"
	if _, err := openbento.New(context.Background(), cfg); !errors.Is(err, openbento.ErrExportTargetInvalid) {
		t.Fatalf("expected ErrExportTargetInvalid, got %v", err)
	}
}

func TestModuleExportsToOutputDir(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Export.OutputDir = t.TempDir()
	cfg.Export.Target = "netlify"

	module, err := openbento.New(context.Background(), cfg, openbento.WithTranscoder(stubTranscoder{}))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer module.Close()

	if module.DefaultTarget() != deploy.Netlify {
		t.Fatalf("expected netlify default target, got %s", module.DefaultTarget())
	}

	result, err := module.Export().Export(context.Background(), sampleSite(), openbento.ExportOptions{Target: module.DefaultTarget()})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := filepath.Join(cfg.Export.OutputDir, "jane-doe-bento-netlify.zip")
	if result.SavedPath != want {
		t.Fatalf("expected archive at %s, got %s", want, result.SavedPath)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected archive on disk: %v", err)
	}
}

func TestModuleWithSaverAndRepository(t *testing.T) {
	saver := &export.MemorySaver{}
	repo := sites.NewMemoryRepository()

	module, err := openbento.New(context.Background(), openbento.DefaultConfig(),
		openbento.WithSaver(saver),
		openbento.WithRepository(repo),
	)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if module.Sites() != repo {
		t.Fatalf("expected injected repository")
	}

	if _, err := module.Export().Export(context.Background(), sampleSite(), openbento.ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, ok := saver.Files["jane-doe-bento-vercel.zip"]; !ok {
		t.Fatalf("expected archive in memory saver, got %v", saver.Files)
	}
	if err := module.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestModuleOpensSQLiteStore(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Storage = openbento.StorageConfig{Driver: "sqlite", DSN: "file:bento_module_test?mode=memory&cache=shared"}

	module, err := openbento.New(context.Background(), cfg, openbento.WithSaver(nil))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	created, err := module.Sites().Create(ctx, sites.Site{Name: "module-test", Data: sampleSite()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	loaded, err := module.Sites().GetByName(ctx, "MODULE-TEST")
	if err != nil || loaded.ID != created.ID {
		t.Fatalf("expected saved bento by name, got %v %v", loaded, err)
	}
	if err := module.Sites().Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestNewLoggerProviderSelectsGologger(t *testing.T) {
	provider, err := openbento.NewLoggerProvider(openbento.LoggingConfig{Provider: "gologger", Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	if _, ok := provider.(*gologger.Provider); !ok {
		t.Fatalf("expected gologger provider, got %T", provider)
	}

	if _, err := openbento.NewLoggerProvider(openbento.LoggingConfig{Provider: "zap"}); !errors.Is(err, openbento.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestExportServiceConfigMapsRuntimeSettings(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Export.WebP = false
	cfg.Export.Workers = 3
	cfg.Export.MaxFeedVideos = 6
	cfg.Export.FeedProxy = " https://proxy.example/?u= "

	got := openbento.ExportServiceConfig(cfg)
	if got.Assets.WebP || got.Assets.Concurrency != 3 {
		t.Fatalf("unexpected asset config %+v", got.Assets)
	}
	if got.Codegen.MaxFeedVideos != 6 || got.Codegen.FeedProxy != "https://proxy.example/?u=" {
		t.Fatalf("unexpected codegen config %+v", got.Codegen)
	}
}
