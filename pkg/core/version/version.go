// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     version
// Description: Central version management for the application and its components
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package version

// Version constants for alarmview
const (
	// Application version
	Application = "1.0.0"

	// Component versions
	Command  = "1.0.0"
	Vehicles = "1.0.0"
	Store    = "1.0.0"
	Feed     = "1.0.0"
	Viewer   = "1.0.0"
)

// Build information, set via -ldflags "-X".
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "command":
		return Command
	case "vehicles":
		return Vehicles
	case "store":
		return Store
	case "feed":
		return Feed
	case "viewer":
		return Viewer
	default:
		return Application
	}
}

// Components lists the component names in display order
func Components() []string {
	return []string{"command", "vehicles", "store", "feed", "viewer"}
}
