package cli

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// NewLogger builds a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a --log-level value to a slog level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging opens --log-file and installs a logger on it as the slog
// default. Without a log file, records go to fallback, or nowhere when
// fallback is nil. The returned func closes the file.
func SetupLogging(opts *RootOptions, fallback io.Writer) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }

	w := fallback
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "snkscrub")
		if err != nil {
			return nil, closer, WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		w, closer = f, f.Close
	}
	if w == nil {
		w = io.Discard
	}

	logger := NewLogger(w, opts.LogLevel)
	slog.SetDefault(logger)
	return logger, closer, nil
}
