// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers with rotated file output
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	mdwlog "github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/pkg/core/config"
)

var (
	// file writers by path, shared by all loggers of the process
	fileWriters   = make(map[string]*lumberjack.Logger)
	fileWritersMu sync.Mutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console" (default: json)
	Format string

	// Console writes to stderr in addition to the file
	Console bool

	// File enables rotated file output (optional)
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
		Console:     true,
	}
}

// FromConfig builds a LoggerConfig from the application configuration.
// console selects whether stderr receives records too.
func FromConfig(serviceName string, cfg config.LoggingConfig, console bool) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       cfg.Level,
		Format:      cfg.Format,
		Console:     console,
		File:        cfg.File,
		MaxSizeMB:   cfg.MaxSizeMB,
		MaxBackups:  cfg.MaxBackups,
		MaxAgeDays:  cfg.MaxAgeDays,
		Compress:    cfg.Compress,
	}
}

// NewLogger creates a new Foundation logger. Without console and file
// output every record is discarded.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level := parseLevel(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stderr)
	}
	if cfg.File != "" {
		if w := getOrCreateFileWriter(cfg); w != nil {
			writers = append(writers, w)
		}
	}
	writers = append(writers, cfg.AdditionalOutputs...)

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:        level,
		Format:       mdwlog.ParseFormat(cfg.Format),
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: level <= mdwlog.LevelDebug,
	})
}

// NewSimpleLogger creates a stderr logger with default settings
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// getOrCreateFileWriter returns the rotating writer for cfg.File, creating
// it and its directory if necessary.
func getOrCreateFileWriter(cfg LoggerConfig) *lumberjack.Logger {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()

	if w, ok := fileWriters[cfg.File]; ok {
		return w
	}

	if dir := filepath.Dir(cfg.File); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil
		}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	fileWriters[cfg.File] = w
	return w
}

// Rotate starts new log files for all open file writers
func Rotate() error {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()

	for _, w := range fileWriters {
		if err := w.Rotate(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all file writers
func Close() error {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()

	var firstErr error
	for path, w := range fileWriters {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(fileWriters, path)
	}
	return firstErr
}

// parseLevel converts a string level to mdwlog.Level
func parseLevel(level string) mdwlog.Level {
	l, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelInfo
	}
	return l
}
