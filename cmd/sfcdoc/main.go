// Command sfcdoc documents single-file components.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

const version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every command once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *ProjectConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sfcdoc",
		Short: "Document single-file components",
		Long: `sfcdoc extracts documentation from single-file components: props, data,
computed properties, methods, events, slots and the v-model binding.

Results are available as JSON, as a persisted catalog, through a watch
mode that keeps the catalog current, and through an MCP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: .sfcdoc/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (json, text)")

	root.AddCommand(
		newInitCmd(a),
		newParseCmd(a),
		newScanCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads the config file and applies the global flags over it.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	level, err := util.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := util.ParseLogFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) newParser() (*vuedoc.Parser, error) {
	if err := a.cfg.Parser.Validate(); err != nil {
		return nil, err
	}
	return vuedoc.New(a.cfg.Parser, a.logger)
}

// workspace bundles the parser, file cache, index and scanner of the
// batch commands.
type workspace struct {
	parser  *vuedoc.Parser
	files   util.FileCache
	index   *indexer.ComponentIndex
	scanner *indexer.WorkspaceScanner
	logger  *slog.Logger
}

func (a *app) newWorkspace() (*workspace, error) {
	parser, err := a.newParser()
	if err != nil {
		return nil, err
	}

	fileConfig := util.DefaultFileCacheConfig()
	fileConfig.Logger = a.logger
	files := util.NewFileCache(fileConfig)

	index := indexer.NewComponentIndex(indexer.DefaultIndexConfig(), a.logger)
	return &workspace{
		parser:  parser,
		files:   files,
		index:   index,
		scanner: indexer.NewWorkspaceScanner(parser, files, index, a.logger),
		logger:  a.logger,
	}, nil
}

func (w *workspace) Close() {
	w.index.Close()
	if err := w.files.Close(); err != nil {
		w.logger.Warn("Failed to close file cache", "error", err)
	}
	w.parser.Close()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sfcdoc %s\n", version)
			return err
		},
	}
}
