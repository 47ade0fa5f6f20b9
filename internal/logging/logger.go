// Package logging owns the process-wide zerolog logger. The TUI owns the
// terminal, so logs go to a file unless an explicit writer is given.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // "debug", "info", ...; defaults to info
	Debug  bool      // forces debug level
	File   string    // log file path, ignored when Output is set
	Output io.Writer // optional writer
}

var (
	mu   sync.RWMutex
	base = zerolog.Nop()
	file *os.File
)

// Configure replaces the global logger. Calling it again closes the file
// opened by the previous call.
func Configure(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	var opened *os.File
	if writer == nil {
		if cfg.File == "" {
			writer = io.Discard
		} else {
			if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			opened = f
			writer = f
		}
	}

	logger := zerolog.New(writer).Level(level).With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = opened
	base = logger
	return nil
}

// Close flushes and closes the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.Nop()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
