package mcp

import (
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/mcplog"
	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

const serverVersion = "0.1.0-dev"

// Config configures a Server.
type Config struct {
	// Root is the workspace directory relative paths resolve against.
	Root string

	// Scan selects the files scan_components documents.
	Scan indexer.ScanOptions

	// CallLog records every tool call when non-nil.
	CallLog *mcplog.Logger

	Logger *slog.Logger
}

// Server implements the MCP server for sfcdoc, exposing component parsing
// and workspace documentation tools.
type Server struct {
	mcpServer *server.MCPServer
	parser    *vuedoc.Parser
	files     util.FileCache
	scanner   *indexer.WorkspaceScanner
	index     *indexer.ComponentIndex
	root      string
	scan      indexer.ScanOptions
	callLog   *mcplog.Logger
	logger    *slog.Logger
}

// NewServer creates a new MCP server. Components documented by the scanner,
// a file watcher or scan_components are served from the scanner's index.
func NewServer(parser *vuedoc.Parser, files util.FileCache, scanner *indexer.WorkspaceScanner, config Config) *Server {
	root, err := filepath.Abs(config.Root)
	if err != nil {
		root = config.Root
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if len(config.Scan.Include) == 0 {
		config.Scan = indexer.DefaultScanOptions()
	}

	s := &Server{
		parser:  parser,
		files:   files,
		scanner: scanner,
		index:   scanner.Index(),
		root:    root,
		scan:    config.Scan,
		callLog: config.CallLog,
		logger:  config.Logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("sfcdoc", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: parseComponentTool(), Handler: s.handleParseComponent},
		server.ServerTool{Tool: scanComponentsTool(), Handler: s.handleScanComponents},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentTool(), Handler: s.handleGetComponent},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// resolve makes p absolute against the workspace root.
func (s *Server) resolve(p string) string {
	if p == "" {
		return s.root
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.root, p)
}
