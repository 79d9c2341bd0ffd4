package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	exportcmd "github.com/maboudharam/openbento/internal/commands/export"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/internal/sites"
	"github.com/spf13/cobra"
)

func newSitesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage saved bentos",
	}
	cmd.AddCommand(
		newSitesImportCommand(c),
		newSitesListCommand(c),
		newSitesExportCommand(c),
		newSitesDeleteCommand(c),
	)
	return cmd
}

func newSitesImportCommand(c *cli) *cobra.Command {
	var (
		name    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "import <site.json>",
		Short: "Save a site document under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := site.Load(args[0])
			if err != nil {
				return err
			}
			site.ApplyImportDefaults(&doc)
			if err := site.Validate(doc.SiteData); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if strings.TrimSpace(name) == "" {
				name = doc.Name
			}

			ctx := cmd.Context()
			return c.withModule(ctx, func(r *moduleResources) error {
				saved, err := r.sites.Create(ctx, sites.Site{Name: name, Data: doc.SiteData})
				if errors.Is(err, sites.ErrSiteExists) && replace {
					existing, lookupErr := r.sites.GetByName(ctx, name)
					if lookupErr != nil {
						return lookupErr
					}
					existing.Data = doc.SiteData
					saved, err = r.sites.Update(ctx, existing)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Name, saved.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name to save under (defaults to the document name)")
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite a saved bento with the same name")
	return cmd
}

func newSitesListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved bentos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return c.withModule(ctx, func(r *moduleResources) error {
				records, err := r.sites.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tBLOCKS\tUPDATED")
				for _, record := range records {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						record.ID, record.Name, len(record.Data.Blocks), record.UpdatedAt.UTC().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

func newSitesExportCommand(c *cli) *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export <name|id>",
		Short: "Export a saved bento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, name := parseLookup(args[0])
			return c.withModule(ctx, func(r *moduleResources) error {
				var result *export.Result
				err := r.handlers.exportSaved.Execute(ctx, exportcmd.ExportSavedSiteCommand{
					ID:     id,
					Name:   name,
					Target: c.cfg.Export.Target,
					SiteID: flags.siteID,
					DryRun: flags.dryRun,
					ResultCallback: func(res *export.Result) {
						result = res
					},
				})
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	addExportFlags(cmd, flags)
	return cmd
}

func newSitesDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a saved bento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, name := parseLookup(args[0])
			return c.withModule(ctx, func(r *moduleResources) error {
				if id == uuid.Nil {
					record, err := r.sites.GetByName(ctx, name)
					if err != nil {
						return err
					}
					id = record.ID
				}
				if err := r.sites.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

// parseLookup treats a valid UUID as an id and anything else as a name.
func parseLookup(value string) (uuid.UUID, string) {
	value = strings.TrimSpace(value)
	if id, err := uuid.Parse(value); err == nil {
		return id, ""
	}
	return uuid.Nil, value
}
