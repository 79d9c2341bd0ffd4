package logging

import (
	"context"
	"strings"

	"github.com/maboudharam/openbento/pkg/interfaces"
)

const (
	rootModule     = "openbento"
	assetsModule   = "openbento.assets"
	codegenModule  = "openbento.codegen"
	exportModule   = "openbento.export"
	sitesModule    = "openbento.sites"
	commandsModule = "openbento.commands"
	cliModule      = "openbento.cli"
)

const (
	fieldExportID = "export_id"
	fieldTarget   = "target"
	fieldSiteName = "site"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

func CodegenLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, codegenModule)
}

func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

func SitesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sitesModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithExportContext enriches logger with the export id, deployment target and
// site name. Empty values are skipped.
func WithExportContext(logger interfaces.Logger, exportID, target, site string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(exportID); trimmed != "" {
		fields[fieldExportID] = trimmed
	}
	if trimmed := strings.TrimSpace(target); trimmed != "" {
		fields[fieldTarget] = trimmed
	}
	if trimmed := strings.TrimSpace(site); trimmed != "" {
		fields[fieldSiteName] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
