// File: format.go
// Title: Log Output Formats
// Description: Selects the zerolog writer for the configured output format.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18

package log

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format represents the output format of log records
type Format int

const (
	// FormatJSON writes one JSON object per line
	FormatJSON Format = iota
	// FormatText writes human readable lines without colors
	FormatText
	// FormatConsole writes human readable, colored lines
	FormatConsole
)

// String returns the name of the format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "json"
	}
}

// ParseFormat parses a format name, defaulting to JSON
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "plain":
		return FormatText
	case "console", "color":
		return FormatConsole
	default:
		return FormatJSON
	}
}

// writerFor wraps output according to the format
func writerFor(format Format, output io.Writer) io.Writer {
	switch format {
	case FormatText:
		return zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: time.RFC3339}
	case FormatConsole:
		return zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	default:
		return output
	}
}
