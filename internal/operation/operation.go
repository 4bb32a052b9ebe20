// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     operation
// Description: Alarm operations and their persistence
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package operation

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

// Operation is one alarm (Einsatz) as received from the dispatch center
type Operation struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"`
	Timestamp      time.Time  `json:"timestamp"`
	Keyword        string     `json:"keyword"`
	Comment        string     `json:"comment,omitempty"`
	Location       Location   `json:"location"`
	Resources      []Resource `json:"resources,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// Location is the place of the operation
type Location struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	Property string `json:"property,omitempty"`
}

// Resource is a unit requested for the operation
type Resource struct {
	// Name as transmitted, e.g. "FL ANS 1/44-1 LF 20"
	Name      string   `json:"name"`
	Equipment []string `json:"equipment,omitempty"`
}

// ErrInvalid is returned for operations that cannot be stored
var ErrInvalid = mdwerror.New("invalid operation").WithCode(mdwerror.CodeInvalidInput)

// NewID returns a fresh operation ID
func NewID() string {
	return uuid.NewString()
}

// IsAcknowledged reports whether the operation has been acknowledged
func (o *Operation) IsAcknowledged() bool {
	return o.AcknowledgedAt != nil
}

// Title returns the keyword, or the number when no keyword is set
func (o *Operation) Title() string {
	if o.Keyword != "" {
		return o.Keyword
	}
	return o.Number
}

// Validate checks the fields required for storage
func (o *Operation) Validate() error {
	if strings.TrimSpace(o.Number) == "" && strings.TrimSpace(o.Keyword) == "" {
		return mdwerror.Wrap(ErrInvalid, "number or keyword required")
	}
	if o.ID != "" {
		if _, err := uuid.Parse(o.ID); err != nil {
			return mdwerror.Wrapf(ErrInvalid, "id %q is not a UUID", o.ID)
		}
	}
	return nil
}

// String returns "street, city" with the property in parentheses if set
func (l Location) String() string {
	var parts []string
	if l.Street != "" {
		parts = append(parts, l.Street)
	}
	if l.City != "" {
		parts = append(parts, l.City)
	}
	s := strings.Join(parts, ", ")
	if l.Property != "" {
		if s == "" {
			return l.Property
		}
		s += " (" + l.Property + ")"
	}
	return s
}

// Decode reads operations from JSON. Both a single object and an array are
// accepted.
func Decode(r io.Reader) ([]*Operation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read operations")
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var ops []*Operation
		if err := json.Unmarshal(data, &ops); err != nil {
			return nil, mdwerror.Wrap(err, "decode operations").WithCode(mdwerror.CodeInvalidInput)
		}
		return ops, nil
	}

	var op Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, mdwerror.Wrap(err, "decode operation").WithCode(mdwerror.CodeInvalidInput)
	}
	return []*Operation{&op}, nil
}
