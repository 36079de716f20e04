// Package common holds the logger and request context helpers shared by the
// portal and MCP binaries.
package common

import (
	"os"
	"slices"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	logTimeFormat     = "2006-01-02T15:04:05Z07:00"
	defaultLogFile    = "logs/investor-portal.log"
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
)

// Logger wraps arbor.ILogger so callers depend on one type.
type Logger struct {
	arbor.ILogger
}

// LoggingConfig selects the writers of a Logger. Outputs accepts "console"
// (stderr) and "file" (rotating).
type LoggingConfig struct {
	Level      string
	Outputs    []string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// withDefaults fills every unset field.
func (c LoggingConfig) withDefaults() LoggingConfig {
	if c.Level == "" {
		c.Level = "info"
	}
	if len(c.Outputs) == 0 {
		c.Outputs = []string{"console", "file"}
	}
	if c.FilePath == "" {
		c.FilePath = defaultLogFile
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = defaultMaxBackups
	}
	return c
}

// NewLoggerFromConfig creates a logger with the configured writers.
// Unknown output names are ignored.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	cfg = cfg.withDefaults()
	l := arbor.NewLogger()

	if slices.Contains(cfg.Outputs, "console") {
		l = l.WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			Writer:     os.Stderr,
			TimeFormat: logTimeFormat,
		})
	}
	if slices.Contains(cfg.Outputs, "file") {
		l = l.WithFileWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeFile,
			FileName:   cfg.FilePath,
			MaxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
			MaxBackups: cfg.MaxBackups,
			TimeFormat: logTimeFormat,
		})
	}

	return &Logger{ILogger: l.WithLevelFromString(cfg.Level)}
}

// discardWriter implements writers.IWriter and drops everything.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// NewSilentLogger creates a logger that discards all output. It owns an
// explicit writer so nothing reaches globally registered writers.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a new Logger tagged with a correlation id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
