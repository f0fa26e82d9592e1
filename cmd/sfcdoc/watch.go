package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/indexer"
)

func newWatchCmd(a *app) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep the catalog current while components change",
		Long: `Scan dir, write the catalog, then re-document changed files and rewrite
the catalog after every change until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if flags.output == "" {
				flags.output = a.cfg.CatalogPath
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, a, root, flags.apply(cmd, a.cfg.Scan), flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "catalog file (default: catalog_path from config)")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, root string, opts indexer.ScanOptions, output string) error {
	ws, err := a.newWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	cat, stats, err := scanCatalog(ctx, ws, root, opts)
	if err != nil {
		return err
	}
	if err := cat.Save(output); err != nil {
		return err
	}
	printScanSummary(cmd.OutOrStdout(), stats, output)

	watchOpts := a.cfg.watchOptions()
	watchOpts.Include = opts.Include
	watchOpts.Exclude = opts.Exclude
	watcher, err := indexer.NewFileWatcher(ws.parser, ws.files, ws.index, watchOpts, a.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	watcher.OnChange(func(ev indexer.WatchEvent) {
		mu.Lock()
		defer mu.Unlock()

		rel, relErr := filepath.Rel(root, ev.FilePath)
		if relErr != nil {
			rel = ev.FilePath
		}
		switch {
		case ev.Err != nil:
			fmt.Fprintf(out, "%s: %v\n", rel, ev.Err)
			return
		case ev.Component == nil:
			fmt.Fprintf(out, "%s: removed\n", rel)
		default:
			fmt.Fprintf(out, "%s: %s updated\n", rel, ev.Component.Name)
		}
		if err := indexCatalog(ws.index, root).Save(output); err != nil {
			a.logger.Error("Failed to write catalog", "path", output, "error", err)
		}
	})

	if err := watcher.Start(ctx, root); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "Watching %s\n", root)
	<-ctx.Done()
	return nil
}
