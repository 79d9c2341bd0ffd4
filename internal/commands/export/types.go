package exportcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/site"
)

const (
	exportSiteMessageType  = "openbento.export.site"
	exportSavedMessageType = "openbento.export.saved"

	// Text codes attached to failures surfaced by the export handlers.
	CodeExportInvalid = "EXPORT_INVALID"
	CodeExportFailed  = "EXPORT_FAILED"
)

// ResultCallback receives the export result. It is invoked synchronously
// from the handler once the archive has been produced.
type ResultCallback func(*export.Result)

// ExportSiteCommand exports an inline site document.
type ExportSiteCommand struct {
	Site           site.SiteData  `json:"site"`
	Target         string         `json:"target,omitempty"`
	SiteID         string         `json:"site_id,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportSiteCommand) Type() string { return exportSiteMessageType }

// Validate checks the target name and the site invariants the exporter relies on.
func (m ExportSiteCommand) Validate() error {
	errs := validation.Errors{}
	validateTarget(errs, m.Target)
	if err := site.Validate(m.Site); err != nil {
		errs["site"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportSavedSiteCommand exports a saved bento looked up by id or name.
type ExportSavedSiteCommand struct {
	ID             uuid.UUID      `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Target         string         `json:"target,omitempty"`
	SiteID         string         `json:"site_id,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportSavedSiteCommand) Type() string { return exportSavedMessageType }

// Validate requires an id or a name.
func (m ExportSavedSiteCommand) Validate() error {
	errs := validation.Errors{}
	if m.ID == uuid.Nil && strings.TrimSpace(m.Name) == "" {
		errs["id"] = validation.NewError("openbento.export.saved.lookup_required", "id or name is required")
	}
	validateTarget(errs, m.Target)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTarget(errs validation.Errors, target string) {
	if _, err := deploy.ParseTarget(target); err != nil {
		errs["target"] = validation.NewError("openbento.export.target_invalid", err.Error())
	}
}

func exportOptions(target, siteID string, dryRun bool) export.Options {
	// Validate already rejected unknown targets.
	parsed, _ := deploy.ParseTarget(target)
	return export.Options{
		Target: parsed,
		SiteID: strings.TrimSpace(siteID),
		DryRun: dryRun,
	}
}
