package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maboudharam/openbento"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. OPENBENTO_EXPORT_TARGET.
	EnvPrefix = "OPENBENTO"
	// ConfigName is the base name searched for in the working directory.
	ConfigName = "openbento"
)

var errNilViper = errors.New("bootstrap: viper instance is required")

// NewViper returns a viper instance seeded with the module defaults and the
// environment layer.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, openbento.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// LoadConfig reads the optional config file into v and decodes the merged
// layers. An explicit path must exist; without one a missing openbento.* file
// in the working directory is not an error. The returned string names the
// file that was read, if any.
func LoadConfig(v *viper.Viper, path string) (openbento.Config, string, error) {
	if v == nil {
		return openbento.Config{}, "", errNilViper
	}

	path = strings.TrimSpace(path)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return openbento.Config{}, "", fmt.Errorf("bootstrap: read config: %w", err)
		}
	}

	var cfg openbento.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return openbento.Config{}, "", fmt.Errorf("bootstrap: decode config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Every key is registered so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper, cfg openbento.Config) {
	v.SetDefault("export.target", cfg.Export.Target)
	v.SetDefault("export.output_dir", cfg.Export.OutputDir)
	v.SetDefault("export.webp", cfg.Export.WebP)
	v.SetDefault("export.webp_quality", cfg.Export.WebPQuality)
	v.SetDefault("export.workers", cfg.Export.Workers)
	v.SetDefault("export.feed_proxy", cfg.Export.FeedProxy)
	v.SetDefault("export.max_feed_videos", cfg.Export.MaxFeedVideos)

	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.cache", cfg.Storage.Cache)
	v.SetDefault("storage.cache_ttl", cfg.Storage.CacheTTL)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
