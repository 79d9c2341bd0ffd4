package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/pkg/storage"
)

// ErrExportTargetInvalid indicates the default deployment target is unknown.
var ErrExportTargetInvalid = errors.New("openbento config: export target is invalid")

// ErrWebPQualityInvalid indicates a WebP quality outside (0, 1].
var ErrWebPQualityInvalid = errors.New("openbento config: webp quality must be within (0, 1]")
var ErrExportWorkersInvalid = errors.New("openbento config: export workers must be zero or positive")
var ErrStorageDriverUnknown = errors.New("openbento config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("openbento config: storage dsn is required for sql drivers")
var ErrLoggingProviderUnknown = errors.New("openbento config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("openbento config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("openbento config: logging format is invalid")

// Config aggregates the settings of the exporter, the saved-bento store and
// runtime logging.
type Config struct {
	Export  ExportConfig   `mapstructure:"export"`
	Storage storage.Config `mapstructure:"storage"`
	Logging LoggingConfig  `mapstructure:"logging"`
}

// ExportConfig captures archive generation behaviour. Workers bounds
// concurrent transcodes; zero means unbounded.
type ExportConfig struct {
	Target        string  `mapstructure:"target"`
	OutputDir     string  `mapstructure:"output_dir"`
	WebP          bool    `mapstructure:"webp"`
	WebPQuality   float64 `mapstructure:"webp_quality"`
	Workers       int     `mapstructure:"workers"`
	FeedProxy     string  `mapstructure:"feed_proxy"`
	MaxFeedVideos int     `mapstructure:"max_feed_videos"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the defaults used by the CLI before any file, env or
// flag layer is applied.
func DefaultConfig() Config {
	return Config{
		Export: ExportConfig{
			Target:        deploy.Default.String(),
			OutputDir:     ".",
			WebP:          true,
			WebPQuality:   0.8,
			Workers:       0,
			FeedProxy:     "https://api.allorigins.win/raw?url=",
			MaxFeedVideos: 4,
		},
		Storage: storage.Config{
			Driver:   storage.DriverMemory,
			Cache:    true,
			CacheTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// ParsedTarget parses the configured default target.
func (cfg ExportConfig) ParsedTarget() (deploy.Target, error) {
	target, err := deploy.ParseTarget(cfg.Target)
	if err != nil {
		return deploy.Target{}, fmt.Errorf("%w: %s", ErrExportTargetInvalid, cfg.Target)
	}
	return target, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if _, err := cfg.Export.ParsedTarget(); err != nil {
		return err
	}
	if cfg.Export.WebP && (cfg.Export.WebPQuality <= 0 || cfg.Export.WebPQuality > 1) {
		return fmt.Errorf("%w: %v", ErrWebPQualityInvalid, cfg.Export.WebPQuality)
	}
	if cfg.Export.Workers < 0 {
		return ErrExportWorkersInvalid
	}

	driver := cfg.Storage.NormalizedDriver()
	if !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if cfg.Storage.IsSQL() && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isSupportedDriver(driver string) bool {
	for _, known := range storage.Drivers() {
		if driver == known {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
