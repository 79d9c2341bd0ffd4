package exportcmd

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maboudharam/openbento/internal/commands"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/sites"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// ErrServiceRequired indicates a handler was built without an export service.
var ErrServiceRequired = errors.New("exportcmd: export service is required")

var errRepositoryRequired = errors.New("exportcmd: sites repository is required")

var exportCodes = commands.ErrorCodes{
	Validation: CodeExportInvalid,
	Execution:  CodeExportFailed,
}

// ExportSiteHandler runs inline exports through the shared command handler.
type ExportSiteHandler struct {
	inner *commands.Handler[ExportSiteCommand]
}

// NewExportSiteHandler constructs a handler wired to the provided export service.
func NewExportSiteHandler(service export.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSiteCommand]) *ExportSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ExportSiteCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		result, err := service.Export(ctx, msg.Site, exportOptions(msg.Target, msg.SiteID, msg.DryRun))
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSiteCommand]{
		commands.WithLogger[ExportSiteCommand](baseLogger),
		commands.WithOperation[ExportSiteCommand]("export.site"),
		commands.WithErrorCodes[ExportSiteCommand](exportCodes),
		commands.WithMessageFields[ExportSiteCommand](func(msg ExportSiteCommand) map[string]any {
			fields := map[string]any{"blocks": len(msg.Site.Blocks)}
			if msg.Target != "" {
				fields["target"] = msg.Target
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportSiteCommand].
func (h *ExportSiteHandler) Execute(ctx context.Context, msg ExportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportSavedSiteHandler exports bentos stored in a sites repository.
type ExportSavedSiteHandler struct {
	inner *commands.Handler[ExportSavedSiteCommand]
}

// NewExportSavedSiteHandler constructs a handler that loads the site from repo before exporting.
func NewExportSavedSiteHandler(service export.Service, repo sites.Repository, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSavedSiteCommand]) *ExportSavedSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ExportSavedSiteCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		if repo == nil {
			return errRepositoryRequired
		}

		var (
			record sites.Site
			err    error
		)
		if msg.ID != uuid.Nil {
			record, err = repo.Get(ctx, msg.ID)
		} else {
			record, err = repo.GetByName(ctx, msg.Name)
		}
		if err != nil {
			return err
		}

		result, err := service.Export(ctx, record.Data, exportOptions(msg.Target, msg.SiteID, msg.DryRun))
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSavedSiteCommand]{
		commands.WithLogger[ExportSavedSiteCommand](baseLogger),
		commands.WithOperation[ExportSavedSiteCommand]("export.saved"),
		commands.WithErrorCodes[ExportSavedSiteCommand](exportCodes),
		commands.WithMessageFields[ExportSavedSiteCommand](func(msg ExportSavedSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.Name != "" {
				fields["site"] = msg.Name
			}
			if msg.Target != "" {
				fields["target"] = msg.Target
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSavedSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportSavedSiteCommand].
func (h *ExportSavedSiteHandler) Execute(ctx context.Context, msg ExportSavedSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, result *export.Result) {
	if cb != nil {
		cb(result)
	}
}
