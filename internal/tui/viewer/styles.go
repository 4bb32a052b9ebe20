// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     viewer
// Description: Styles for the operation viewer TUI
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package viewer

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorAlarm   = lipgloss.Color("#DC2626") // Red 600
	ColorAccent  = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorText    = lipgloss.Color("#F8FAFC") // Slate 50
	ColorPanel   = lipgloss.Color("#1E293B") // Slate 800
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorAlarm).
			Bold(true).
			Padding(0, 1)

	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	KeywordStyle = lipgloss.NewStyle().
			Foreground(ColorAlarm).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(10)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	AcknowledgedStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Vehicle tiles
	VehicleStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Foreground(ColorMuted).
			Padding(0, 1)

	VehicleRequestedStyle = VehicleStyle.
				BorderForeground(ColorAlarm).
				Foreground(ColorText).
				Bold(true)

	VehicleMarkedStyle = VehicleStyle.
				BorderForeground(ColorSuccess).
				Foreground(ColorSuccess).
				Bold(true)

	OwnResourceStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Bold(true)

	OtherResourceStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	StatusOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorAlarm)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorAlarm)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(1, 2)
)
