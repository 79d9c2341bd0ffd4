package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/pkg/interfaces"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	logger   interfaces.Logger
	// ready is closed once the watcher is registered.
	ready chan<- struct{}
}

func newWatchCommand(c *cli) *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "watch <site.json>",
		Short: "Re-export a site document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return c.withModule(ctx, func(r *moduleResources) error {
				rebuild := func(ctx context.Context) error {
					return c.exportFile(ctx, r, args[0], flags, out)
				}
				if err := rebuild(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "watching %s\n", args[0])
				return watchFile(ctx, args[0], watchOptions{debounce: watchDebounce, logger: r.logger}, rebuild)
			})
		},
	}
	addExportFlags(cmd, flags)
	return cmd
}

// watchFile calls rebuild after path settles following a change, until ctx is
// done. The parent directory is watched so editors that save by rename are
// still seen. Rebuilds run on the watch goroutine and never overlap.
func watchFile(ctx context.Context, path string, opts watchOptions, rebuild func(context.Context) error) error {
	logger := opts.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	debounce := opts.debounce
	if debounce <= 0 {
		debounce = watchDebounce
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	if opts.ready != nil {
		close(opts.ready)
	}

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch.error", "error", err)
		case <-trigger:
			logger.Info("watch.change", "path", path)
			if err := rebuild(ctx); err != nil {
				logger.Error("watch.export_failed", "path", path, "error", err)
			}
		}
	}
}
