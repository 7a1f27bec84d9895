// Package logging builds the charmbracelet/log loggers used by the TUI,
// the CLI commands and the HTTP server.
package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "haru"

// New returns a logger writing to w at the named level. Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// OpenFile returns a logger appending to path. The TUI owns stdout, so
// interactive sessions log here instead. The returned closer closes the file.
func OpenFile(path, level string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return New(io.Discard, level), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := New(f, level)
	logger.SetFormatter(log.LogfmtFormatter)
	return logger, f, nil
}
