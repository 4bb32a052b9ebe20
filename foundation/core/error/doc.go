// File: doc.go
// Title: Error Package Documentation
// Description: Structured errors with codes, severity and details for the
//              alarmview components.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-18 v0.2.0: Reduced to codes, severity and details; stack traces removed

/*
Package error provides a structured error type carrying a code, a severity
and free-form details.

Errors created here stay compatible with the standard library: Wrap keeps
the cause reachable through Unwrap, so errors.Is and errors.As work across
the chain. Sentinel errors can be declared with New and compared with
errors.Is after wrapping.

	var ErrNotFound = mdwerror.New("operation not found").WithCode(mdwerror.CodeNotFound)

	return mdwerror.Wrap(err, "failed to load vehicles").
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("path", path)
*/
package error
