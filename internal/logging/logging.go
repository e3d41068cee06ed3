// Package logging routes slog and the standard logger into a file so the
// terminal stays clean for CLI and arranger output.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init writes logs to <dataDir>/logs/dashlayout.log in text format.
// The returned closer flushes and closes the file.
func Init(dataDir string) (io.Closer, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filepath.Join(logDir, "dashlayout.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	setDefault(file, slog.LevelDebug)
	return file, nil
}

// InitStderr logs to stderr, for the daemon and the HTTP server where the
// process output is the log.
func InitStderr(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	setDefault(os.Stderr, level)
}

func setDefault(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Anything still using the standard logger lands in the same place
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
}
