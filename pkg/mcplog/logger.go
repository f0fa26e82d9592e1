// Package mcplog records MCP tool calls as JSONL lines.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// shortStringMax is the longest string argument written verbatim.
const shortStringMax = 64

// LogEntry is one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	IsError       bool           `json:"is_error,omitempty"`
	Error         *string        `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns a nil Logger, which callers treat as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string {
	return l.path
}

// Write appends a single entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Record builds the entry for a finished call and writes it. Write failures
// are returned so the caller can decide to ignore them.
func (l *Logger) Record(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, callErr error) error {
	size := ResponseBytes(result)
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: size,
		TokensEst:     size / 4,
		IsError:       result != nil && result.IsError,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.Error = &msg
	}
	return l.Write(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args fit for the log. Long strings such
// as inline component sources become a "{key}_len" entry and lists become a
// "{key}_count" entry.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch v := v.(type) {
		case string:
			if len(v) > shortStringMax {
				out[k+"_len"] = len(v)
				continue
			}
			out[k] = v
		case []any:
			out[k+"_count"] = len(v)
		case []string:
			out[k+"_count"] = len(v)
		default:
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized size of a result's content, or 0 for
// a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
