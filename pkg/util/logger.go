package util

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogFormat represents the output format for logs
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// DefaultLoggerConfig logs text at info level to stderr. Stdout is reserved
// for command output and the MCP stdio transport.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// NewLogger creates a new structured logger with the given configuration
func NewLogger(config LoggerConfig) *slog.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(config.Level),
	}

	var handler slog.Handler
	switch config.Format {
	case FormatText:
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}

// ParseLogLevel validates a level name from flags or config.
func ParseLogLevel(s string) (LogLevel, error) {
	switch level := LogLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level, nil
	case "":
		return LevelInfo, nil
	}
	return "", fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
}

// ParseLogFormat validates a format name from flags or config.
func ParseLogFormat(s string) (LogFormat, error) {
	switch format := LogFormat(strings.ToLower(strings.TrimSpace(s))); format {
	case FormatJSON, FormatText:
		return format, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("invalid log format %q (want json or text)", s)
}

// parseLevel converts a LogLevel to slog.Level
func parseLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
