package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/indexer"
	mcpserver "github.com/gnana997/sfcdoc/pkg/mcp"
	"github.com/gnana997/sfcdoc/pkg/mcplog"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		flags  scanFlags
		mcpLog string
		noScan bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Start the MCP server on stdin/stdout",
		Long: `Serve component documentation for dir (default: the current directory)
over the Model Context Protocol. The workspace is scanned at startup unless
--no-scan is given; --watch keeps the index current while files change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			if mcpLog == "" {
				mcpLog = a.cfg.MCPLog
			}
			opts := flags.apply(cmd, a.cfg.Scan)

			ws, err := a.newWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			callLog, err := mcplog.NewLogger(mcpLog)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
				a.logger.Info("Recording tool calls", "path", callLog.Path())
			}

			ctx := cmd.Context()
			if !noScan {
				stats, err := ws.scanner.ScanWorkspace(ctx, root, opts, nil)
				if err != nil {
					return err
				}
				a.logger.Info("Workspace indexed",
					"components", stats.FilesIndexed,
					"failed", stats.FilesFailed,
					"duration_ms", stats.TotalTimeMs)
			}

			if watch {
				watchOpts := a.cfg.watchOptions()
				watchOpts.Include = opts.Include
				watchOpts.Exclude = opts.Exclude
				watcher, err := indexer.NewFileWatcher(ws.parser, ws.files, ws.index, watchOpts, a.logger)
				if err != nil {
					return err
				}
				if err := watcher.Start(ctx, root); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			srv := mcpserver.NewServer(ws.parser, ws.files, ws.scanner, mcpserver.Config{
				Root:    root,
				Scan:    opts,
				CallLog: callLog,
				Logger:  a.logger,
			})
			return srv.ServeStdio()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mcpLog, "mcp-log", "", "append a JSONL record of every tool call to this file")
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "skip the startup scan")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-document files as they change")
	return cmd
}
