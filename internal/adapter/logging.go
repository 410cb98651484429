package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log formats for LoggingConfig.Format. Empty picks JSON for files and text
// for stderr.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LogStderr as LoggingConfig.File sends logs to stderr
const LogStderr = "-"

// SetupLogger builds the process logger from cfg. The returned closer
// releases the log file and is a no-op for stderr.
func SetupLogger(cfg *LoggingConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level := parseLogLevel(cfg.Level)

	if cfg.File == LogStderr {
		h, err := newLogHandler(stderr, cfg.Format, LogFormatText, level)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(h), nopCloser{}, nil
	}

	logPath, err := expandHome(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	h, err := newLogHandler(logFile, cfg.Format, LogFormatJSON, level)
	if err != nil {
		logFile.Close()
		return nil, nil, err
	}
	return slog.New(h), logFile, nil
}

func newLogHandler(w io.Writer, format, fallback string, level slog.Level) (slog.Handler, error) {
	if format == "" {
		format = fallback
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case LogFormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	case LogFormatText:
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}
}

// expandHome resolves a leading ~ against the user's home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
