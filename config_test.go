package openbento_test

import (
	"errors"
	"testing"

	"github.com/maboudharam/openbento"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := openbento.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfigValidateUnknownTarget(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Export.Target = "fly"
	if err := cfg.Validate(); !errors.Is(err, openbento.ErrExportTargetInvalid) {
		t.Fatalf("expected ErrExportTargetInvalid, got %v", err)
	}
}

func TestConfigValidateWebPQuality(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Export.WebPQuality = 1.5
	if err := cfg.Validate(); !errors.Is(err, openbento.ErrWebPQualityInvalid) {
		t.Fatalf("expected ErrWebPQualityInvalid, got %v", err)
	}

	cfg.Export.WebP = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected quality to be ignored without webp, got %v", err)
	}
}

func TestConfigValidateStorageRequiresDSN(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	if err := cfg.Validate(); !errors.Is(err, openbento.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateLoggingProvider(t *testing.T) {
	cfg := openbento.DefaultConfig()
	cfg.Logging.Provider = "zap"
	if err := cfg.Validate(); !errors.Is(err, openbento.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}
