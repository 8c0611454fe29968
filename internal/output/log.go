// Package output provides terminal output utilities for the constrictor CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the process-wide CLI logger. Library code receives loggers by
// injection; only the command layer reaches for this one.
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug level, caller reporting, and forces timestamps.
	Verbose bool

	// Timestamps toggles timestamps. nil means the default (on).
	Timestamps *bool

	// Writer overrides the destination. Defaults to stderr.
	Writer io.Writer
}

// SetupLogging configures the global logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// Logger returns the global logger, for handing to components that take an
// injected *log.Logger.
func Logger() *log.Logger {
	return logger
}

// ComponentLogger returns a child logger whose lines are prefixed with the
// component name (e.g. "registrar", "generator").
func ComponentLogger(name string) *log.Logger {
	child := logger.With()
	child.SetPrefix(StyleDim.Render(name))
	return child
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}
