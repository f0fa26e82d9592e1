package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/sfcdoc/pkg/mcplog"
)

// loggingMiddleware records every tool call in the call log. NewServer only
// installs it when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			if logErr := s.callLog.Record(req.Params.Name, req.GetArguments(), start, result, err); logErr != nil {
				s.logger.Warn("Failed to record tool call", "tool", req.Params.Name, "error", logErr)
			}
			return result, err
		}
	}
}
