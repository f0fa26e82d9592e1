package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/catalog"
	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

type scanFlags struct {
	include []string
	exclude []string
	workers int
	output  string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "glob patterns of files to document (default from config)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns of files and directories to skip (default from config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of parse workers (default: CPU based)")
}

// apply overrides the configured scan options with the flags that were set.
func (f *scanFlags) apply(cmd *cobra.Command, opts indexer.ScanOptions) indexer.ScanOptions {
	if cmd.Flags().Changed("include") {
		opts.Include = f.include
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = f.exclude
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts
}

func newScanCmd(a *app) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Document every component of a workspace and save the catalog",
		Long: `Document every component under dir (default: the current directory) and
write the catalog to --output. Use --output - to print the catalog instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if flags.output == "" {
				flags.output = a.cfg.CatalogPath
			}
			return runScan(cmd, a, root, flags.apply(cmd, a.cfg.Scan), flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "catalog file (default: catalog_path from config)")
	return cmd
}

func runScan(cmd *cobra.Command, a *app, root string, opts indexer.ScanOptions, output string) error {
	ws, err := a.newWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	cat, stats, err := scanCatalog(cmd.Context(), ws, root, opts)
	if err != nil {
		return err
	}
	for _, fe := range stats.Errors {
		a.logger.Warn("Failed to document file", "file", fe.FilePath, "error", fe.Error)
	}

	if output == "-" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	if err := cat.Save(output); err != nil {
		return err
	}
	printScanSummary(cmd.OutOrStdout(), stats, output)
	return nil
}

// scanCatalog scans root into the workspace index and flattens the result.
func scanCatalog(ctx context.Context, ws *workspace, root string, opts indexer.ScanOptions) (*catalog.Catalog, *indexer.ScanStats, error) {
	stats, err := ws.scanner.ScanWorkspace(ctx, root, opts, nil)
	if err != nil {
		return nil, nil, err
	}
	if stats.Cancelled {
		return nil, stats, ctx.Err()
	}
	return indexCatalog(ws.index, root), stats, nil
}

func indexCatalog(index *indexer.ComponentIndex, root string) *catalog.Catalog {
	all := index.All()
	comps := make([]*vuedoc.Component, len(all))
	for i, docs := range all {
		comps[i] = docs.Component
	}
	return catalog.New(filepath.Base(root), root, comps)
}

func printScanSummary(w io.Writer, stats *indexer.ScanStats, output string) {
	fmt.Fprintf(w, "Documented %d of %d files in %dms (%d entries, %d diagnostics)\n",
		stats.FilesIndexed, stats.FilesDiscovered, stats.TotalTimeMs, stats.EntriesExtracted, stats.Diagnostics)
	if stats.FilesFailed > 0 {
		fmt.Fprintf(w, "%d files failed:\n", stats.FilesFailed)
		for _, fe := range stats.Errors {
			fmt.Fprintf(w, "  %s: %v\n", fe.FilePath, fe.Error)
		}
	}
	fmt.Fprintf(w, "Catalog written to %s\n", output)
}
