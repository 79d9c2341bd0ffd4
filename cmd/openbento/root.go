package main

import (
	"context"
	"fmt"
	"io"

	"github.com/maboudharam/openbento"
	"github.com/maboudharam/openbento/cmd/openbento/internal/bootstrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto config keys. Flags only override the
// lower layers when they were set explicitly.
var flagKeys = map[string]string{
	"target":         "export.target",
	"out":            "export.output_dir",
	"workers":        "export.workers",
	"log-level":      "logging.level",
	"log-provider":   "logging.provider",
	"storage-driver": "storage.driver",
	"storage-dsn":    "storage.dsn",
}

type cli struct {
	stdout     io.Writer
	configPath string
	configUsed string
	cfg        openbento.Config
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "openbento",
		Short:         "Export bento link-in-bio pages as deployable projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default is ./openbento.{yaml,toml,json})")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-provider", "", "logging provider (console, gologger)")
	flags.String("storage-driver", "", "saved bento store (memory, sqlite, postgres)")
	flags.String("storage-dsn", "", "saved bento store connection string")

	root.AddCommand(
		newExportCommand(c),
		newValidateCommand(c),
		newWatchCommand(c),
		newSitesCommand(c),
		newTargetsCommand(c),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	v := bootstrap.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, used, err := bootstrap.LoadConfig(v, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.configUsed = used
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if cmd.Flags().Changed("no-webp") {
		if off, err := cmd.Flags().GetBool("no-webp"); err == nil && off {
			v.Set("export.webp", false)
		}
	}
	return nil
}

// withModule builds the module for one command run and closes it afterwards.
func (c *cli) withModule(ctx context.Context, fn func(*moduleResources) error) error {
	resources, err := moduleBuilder(ctx, bootstrap.Options{Config: c.cfg})
	if err != nil {
		return err
	}
	defer resources.Close()
	if c.configUsed != "" && resources.logger != nil {
		resources.logger.Debug("cli.config", "file", c.configUsed)
	}
	return fn(resources)
}
