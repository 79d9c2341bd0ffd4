package openbento

import (
	"github.com/maboudharam/openbento/internal/runtimeconfig"
	"github.com/maboudharam/openbento/pkg/storage"
)

var (
	ErrExportTargetInvalid    = runtimeconfig.ErrExportTargetInvalid
	ErrWebPQualityInvalid     = runtimeconfig.ErrWebPQualityInvalid
	ErrExportWorkersInvalid   = runtimeconfig.ErrExportWorkersInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	ExportConfig  = runtimeconfig.ExportConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	StorageConfig = storage.Config
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
