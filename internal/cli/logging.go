package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/interpretive-systems/difftui/internal/config"
)

type warner interface {
	Warn(msg interface{}, keyvals ...interface{})
}

func level(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// newLogger returns the console logger used before the viewer starts.
func newLogger(w io.Writer, debug bool) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	return log.NewWithOptions(w, log.Options{
		Level:     level(debug),
		Prefix:    config.AppName,
		Formatter: log.TextFormatter,
	})
}

// newSessionLogger returns the logger used while the viewer owns the
// terminal: a logfmt file when path is set, otherwise a discarding logger.
func newSessionLogger(path string, debug bool) (*log.Logger, func() error, error) {
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level(debug),
		Prefix:          config.AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f.Close, nil
}
