// Package log provides structured logging for alarmview.
//
// Package: log
// Title: Structured Logging
// Description: A small structured logger with contextual fields, level
//              filtering and JSON or text output. Records are encoded by
//              zerolog; this package keeps the Fields-based call style used
//              throughout the code base.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-18 v0.2.0: Encoding delegated to zerolog; timers, async mode and audit level removed
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Name: "viewer"})
//	logger.Info("operation received", log.Fields{"number": "T 1.2"})
//	logger.WithField("component", "binder").Warn("slot skipped", log.Fields{"slot": "Next"})
//	logger.ErrorWithErr("store failed", err)
package log
