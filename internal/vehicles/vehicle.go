// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     vehicles
// Description: Vehicle configuration of the operation viewer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package vehicles loads the fire department's vehicle list and matches
// requested resources of an operation against it.
package vehicles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vehicle is one of the department's own vehicles
type Vehicle struct {
	// Identifier as it appears in the resource names of the alarm fax
	Identifier string
	// Name shown in the UI, optional
	Name string
	// Image is the absolute path of the vehicle picture
	Image string
	// Shortkey toggles the vehicle in the viewer
	Shortkey Shortkey
}

// DisplayName returns Name, or Identifier when Name is blank.
func (v Vehicle) DisplayName() string {
	if strings.TrimSpace(v.Name) == "" {
		return v.Identifier
	}
	return v.Name
}

// Configuration is the loaded vehicle file.
type Configuration struct {
	// MustContainAbbreviations pre-filters resource names; empty accepts all.
	MustContainAbbreviations []string
	Vehicles                 []Vehicle
}

// upper folds without regard to the user's locale.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Match returns the first vehicle, in file order, whose identifier is
// contained in resourceName. Comparison ignores case. Nil if none matches.
func (c *Configuration) Match(resourceName string) *Vehicle {
	if c == nil {
		return nil
	}
	name := upper(resourceName)
	for i := range c.Vehicles {
		id := upper(c.Vehicles[i].Identifier)
		if id != "" && strings.Contains(name, id) {
			return &c.Vehicles[i]
		}
	}
	return nil
}

// Accepts reports whether resourceName contains one of the required
// abbreviations.
func (c *Configuration) Accepts(resourceName string) bool {
	if c == nil || len(c.MustContainAbbreviations) == 0 {
		return true
	}
	name := upper(resourceName)
	for _, abbr := range c.MustContainAbbreviations {
		if strings.Contains(name, upper(abbr)) {
			return true
		}
	}
	return false
}

// Lookup finds a vehicle by its identifier, ignoring case.
func (c *Configuration) Lookup(identifier string) *Vehicle {
	if c == nil {
		return nil
	}
	want := upper(strings.TrimSpace(identifier))
	if want == "" {
		return nil
	}
	for i := range c.Vehicles {
		if upper(c.Vehicles[i].Identifier) == want {
			return &c.Vehicles[i]
		}
	}
	return nil
}

// ByShortkey returns the vehicle bound to the terminal key string k.
func (c *Configuration) ByShortkey(k string) *Vehicle {
	if c == nil || k == "" {
		return nil
	}
	for i := range c.Vehicles {
		if c.Vehicles[i].Shortkey.Key() == k {
			return &c.Vehicles[i]
		}
	}
	return nil
}
