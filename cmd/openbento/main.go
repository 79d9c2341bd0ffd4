package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/maboudharam/openbento/cmd/openbento/internal/bootstrap"
	exportcmd "github.com/maboudharam/openbento/internal/commands/export"
	"github.com/maboudharam/openbento/internal/sites"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

type exportHandler interface {
	Execute(ctx context.Context, msg exportcmd.ExportSiteCommand) error
}

type exportSavedHandler interface {
	Execute(ctx context.Context, msg exportcmd.ExportSavedSiteCommand) error
}

type handlerSet struct {
	export      exportHandler
	exportSaved exportSavedHandler
}

type moduleResources struct {
	handlers handlerSet
	sites    sites.Repository
	logger   interfaces.Logger
	close    func() error
}

func (r *moduleResources) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}

var moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*moduleResources, error) {
	resources, err := bootstrap.BuildModule(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			export:      resources.Export,
			exportSaved: resources.ExportSaved,
		},
		sites:  resources.Sites,
		logger: resources.Logger,
		close:  resources.Close,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	root := newRootCommand(&cli{stdout: stdout})
	root.SetArgs(args)
	root.SetOut(stdout)
	return root.ExecuteContext(ctx)
}
