// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across alarmview for consistent
//              classification in logs and CLI output.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Programming contract violations
	CodePrecondition     Code = "PRECONDITION"
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// Database and storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeDuplicateEntry   Code = "DUPLICATE_ENTRY"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodePrecondition, CodeInvalidOperation:
		return "contract"
	case CodeDatabaseError, CodeConnectionFailed, CodeDuplicateEntry:
		return "storage"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor error that doesn't affect core functionality
	SeverityLow Severity = iota
	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium
	// SeverityHigh indicates a serious error that significantly impacts functionality
	SeverityHigh
	// SeverityCritical indicates an error that makes the application unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// defaultSeverity maps a code to the severity used when none is set
func defaultSeverity(c Code) Severity {
	switch c {
	case CodeNotFound, CodeInvalidInput:
		return SeverityLow
	case CodePrecondition, CodeDatabaseError, CodeMissingConfig, CodeInvalidConfig:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
