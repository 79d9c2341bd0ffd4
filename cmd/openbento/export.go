package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	exportcmd "github.com/maboudharam/openbento/internal/commands/export"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/export"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	siteID string
	dryRun bool
}

// addExportFlags registers the flags shared by export, watch and sites export.
// target and out are read back through the config layers.
func addExportFlags(cmd *cobra.Command, flags *exportFlags) {
	cmd.Flags().String("target", "", "deployment target (vercel, netlify, github-pages, docker, vps, heroku)")
	cmd.Flags().String("out", "", "directory the archive is written to")
	cmd.Flags().Int("workers", 0, "concurrent image transcodes (0 is unbounded)")
	cmd.Flags().Bool("no-webp", false, "skip WebP siblings for embedded images")
	cmd.Flags().StringVar(&flags.siteID, "site-id", "", "analytics site id baked into the page")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list the archive contents without writing it")
}

func newExportCommand(c *cli) *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export <site.json>",
		Short: "Export a site document as a deployable project archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withModule(cmd.Context(), func(r *moduleResources) error {
				return c.exportFile(cmd.Context(), r, args[0], flags, cmd.OutOrStdout())
			})
		},
	}
	addExportFlags(cmd, flags)
	return cmd
}

func (c *cli) exportFile(ctx context.Context, r *moduleResources, path string, flags *exportFlags, out io.Writer) error {
	doc, err := site.Load(path)
	if err != nil {
		return err
	}

	var result *export.Result
	err = r.handlers.export.Execute(ctx, exportcmd.ExportSiteCommand{
		Site:   doc.SiteData,
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
	printResult(out, result)
	return nil
}

func printResult(w io.Writer, result *export.Result) {
	if result == nil {
		return
	}
	if result.DryRun {
		fmt.Fprintf(w, "dry run: %s (%s)\n", result.Filename, result.Target.DisplayName())
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, file := range result.Files {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", file.Path, file.Size, file.Category)
		}
		tw.Flush()
	} else {
		fmt.Fprintf(w, "exported %s for %s: %d files, %d bytes\n",
			result.Filename, result.Target.DisplayName(), len(result.Files), len(result.Archive))
		if result.SavedPath != "" {
			fmt.Fprintf(w, "saved to %s\n", result.SavedPath)
		}
	}
	for _, skip := range result.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", skip.Key, skip.Reason)
	}
}

func newValidateCommand(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <site.json>",
		Short: "Check a site document without exporting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := site.Load(args[0])
			if err != nil {
				return err
			}
			if err := site.Validate(doc.SiteData); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d blocks)\n", args[0], len(doc.Blocks))
			return nil
		},
	}
}

func newTargetsCommand(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List deployment targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, target := range deploy.Targets() {
				fmt.Fprintf(tw, "%s\t%s\n", target.String(), target.DisplayName())
			}
			return tw.Flush()
		},
	}
}
