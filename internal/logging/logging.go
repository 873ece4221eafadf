// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DebugEnv switches to a text handler at debug level when set.
const DebugEnv = "REQDESK_DEBUG"

// New builds a logger writing to w. Debug mode uses text for reading in a
// terminal; otherwise JSON at info level.
func New(w io.Writer, debug bool) *slog.Logger {
	var handler slog.Handler
	if debug {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

// DebugEnabled reports whether DebugEnv is set to a non-empty value.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// SetupFile points the default logger at path, creating parent dirs. The
// TUI owns stdout, so interactive runs log here. The returned closer must be
// called on exit.
func SetupFile(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(f, DebugEnabled())
	slog.SetDefault(logger)
	return logger, f, nil
}

// SetupStdout points the default logger at stdout, for non-interactive
// commands such as the devserver.
func SetupStdout() *slog.Logger {
	logger := New(os.Stdout, DebugEnabled())
	slog.SetDefault(logger)
	return logger
}
