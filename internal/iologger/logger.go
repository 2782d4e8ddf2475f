// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/troutdb/pkg/config"
	"github.com/natefinch/lumberjack"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "troutdb.log"

var logFile *lumberjack.Logger

// Init initializes the global slog logger with the given configuration.
// With the "file" destination logs go to a size-rotated file in logDir.
func Init(logDir string, cfg config.LogConfig) error {
	writer, err := newWriter(logDir, cfg.Destination)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(newHandler(writer, cfg)))
	return nil
}

func newWriter(logDir, destination string) (io.Writer, error) {
	switch destination {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		logPath := filepath.Join(logDir, LogFileName)
		if logFile != nil && logFile.Filename == logPath {
			return logFile, nil
		}
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		// lumberjack opens the file lazily, check it is writable now
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		f.Close()

		if logFile != nil {
			logFile.Close()
		}
		logFile = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		return logFile, nil
	default:
		return os.Stderr, nil
	}
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "tint":
		// human-oriented text with source locations
		opts.AddSource = true
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// ParseLevel converts string level to slog.Level. Unknown levels are
// treated as info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
