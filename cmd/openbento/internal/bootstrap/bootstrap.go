package bootstrap

import (
	"context"

	"github.com/maboudharam/openbento"
	"github.com/maboudharam/openbento/internal/commands"
	exportcmd "github.com/maboudharam/openbento/internal/commands/export"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/sites"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// Options configures BuildModule.
type Options struct {
	Config        openbento.Config
	ModuleOptions []openbento.Option
}

// Resources bundles the module and the command handlers the CLI drives.
type Resources struct {
	Module      *openbento.Module
	Logger      interfaces.Logger
	Sites       sites.Repository
	Export      *exportcmd.ExportSiteHandler
	ExportSaved *exportcmd.ExportSavedSiteHandler
}

// BuildModule constructs the module from opts.Config and wires the export
// command handlers against it.
func BuildModule(ctx context.Context, opts Options) (*Resources, error) {
	module, err := openbento.New(ctx, opts.Config, opts.ModuleOptions...)
	if err != nil {
		return nil, err
	}

	provider := module.LoggerProvider()
	commandLogger := commands.CommandLogger(provider, "export")

	return &Resources{
		Module:      module,
		Logger:      logging.CLILogger(provider),
		Sites:       module.Sites(),
		Export:      exportcmd.NewExportSiteHandler(module.Export(), commandLogger),
		ExportSaved: exportcmd.NewExportSavedSiteHandler(module.Export(), module.Sites(), commandLogger),
	}, nil
}

// Close releases the module.
func (r *Resources) Close() error {
	if r == nil || r.Module == nil {
		return nil
	}
	return r.Module.Close()
}
