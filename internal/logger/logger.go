// Package logger provides the process-wide structured logger.
//
// It is a thin layer over log/slog: Init configures level, format, and
// output once at startup, and the package-level helpers log with key-value
// attributes. The zero configuration logs INFO and above as text to stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu      sync.RWMutex
	slogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// Init initializes the logger with the given configuration.
// Output can be "stdout", "stderr", or a file path (opened for append).
func Init(cfg Config) error {
	var out io.Writer

	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	slogger = slog.New(handler)
	mu.Unlock()

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level with key-value attributes.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level with key-value attributes.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level with key-value attributes.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level with key-value attributes.
func Error(msg string, args ...any) { get().Error(msg, args...) }
