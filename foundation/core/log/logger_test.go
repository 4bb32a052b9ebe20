// File: logger_test.go
// Title: Logger Tests
// Description: Tests for configuration, context fields, level filtering and
//              error integration.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  LevelDebug,
		Output: &buf,
		Name:   "binder",
	})

	logger.Debug("slot bound", Fields{"slot": "Next"})

	records := decodeLines(t, &buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec["message"] != "slot bound" {
		t.Errorf("message = %v", rec["message"])
	}
	if rec["level"] != "debug" {
		t.Errorf("level = %v", rec["level"])
	}
	if rec["logger"] != "binder" {
		t.Errorf("logger = %v", rec["logger"])
	}
	if rec["slot"] != "Next" {
		t.Errorf("slot = %v", rec["slot"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		logFunc func(*Logger)
		want    bool
	}{
		{"debug filtered at info", LevelInfo, func(l *Logger) { l.Debug("x") }, false},
		{"info passes at info", LevelInfo, func(l *Logger) { l.Info("x") }, true},
		{"warn passes at info", LevelInfo, func(l *Logger) { l.Warn("x") }, true},
		{"info filtered at error", LevelError, func(l *Logger) { l.Info("x") }, false},
		{"error passes at error", LevelError, func(l *Logger) { l.Error("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithConfig(Config{Level: tt.level, Output: &buf})

			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithConfig(Config{Level: LevelInfo, Output: &buf})
	child := base.WithField("component", "viewer")

	child.Info("started")
	base.Info("plain")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["component"] != "viewer" {
		t.Errorf("child record missing field: %v", records[0])
	}
	if _, ok := records[1]["component"]; ok {
		t.Error("WithField must not modify the parent logger")
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Output: &buf}).
		WithFields(Fields{"a": 1, "b": "two"})

	logger.Info("x", Fields{"b": "override"})

	rec := decodeLines(t, &buf)[0]
	if rec["a"] != float64(1) {
		t.Errorf("a = %v", rec["a"])
	}
	if rec["b"] != "override" {
		t.Errorf("call fields should override context fields, b = %v", rec["b"])
	}
}

func TestLoggerErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Output: &buf})

	logger.ErrorWithErr("store failed", errors.New("disk full"))

	rec := decodeLines(t, &buf)[0]
	if rec["error"] != "disk full" {
		t.Errorf("error = %v", rec["error"])
	}
	if rec["level"] != "error" {
		t.Errorf("level = %v", rec["level"])
	}
}

func TestLoggerLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  interface{}
	}{
		{
			name:      "standard error",
			err:       errors.New("boom"),
			wantLevel: "error",
			wantCode:  nil,
		},
		{
			name:      "low severity",
			err:       mdwerror.New("missing").WithCode(mdwerror.CodeNotFound),
			wantLevel: "info",
			wantCode:  "NOT_FOUND",
		},
		{
			name:      "high severity",
			err:       mdwerror.New("bad config").WithCode(mdwerror.CodeInvalidConfig),
			wantLevel: "error",
			wantCode:  "INVALID_CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithConfig(Config{Level: LevelDebug, Output: &buf})

			logger.LogError(tt.err)

			rec := decodeLines(t, &buf)[0]
			if rec["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", rec["level"], tt.wantLevel)
			}
			if rec["error_code"] != tt.wantCode {
				t.Errorf("error_code = %v, want %v", rec["error_code"], tt.wantCode)
			}
		})
	}

	t.Run("nil error", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithConfig(Config{Output: &buf}).LogError(nil)
		if buf.Len() != 0 {
			t.Error("LogError(nil) should not write")
		}
	})
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("vehicles loaded", Fields{"count": 3})

	out := buf.String()
	if !strings.Contains(out, "vehicles loaded") || !strings.Contains(out, "count=3") {
		t.Errorf("unexpected text output %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("text format should not produce JSON")
	}
}

func TestLoggerIsLevelEnabled(t *testing.T) {
	logger := NewWithConfig(Config{Level: LevelWarn})

	if logger.IsLevelEnabled(LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	if !logger.IsLevelEnabled(LevelError) {
		t.Error("error should be enabled at warn")
	}

	logger.SetLevel(LevelDebug)
	if !logger.IsLevelEnabled(LevelDebug) {
		t.Error("SetLevel should take effect")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelFatal) {
		t.Error("Discard logger should filter every level")
	}
	logger.Error("ignored")
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewWithConfig(Config{Level: LevelInfo, Output: &buf}))
	Info("through default")

	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("default logger not used: %q", buf.String())
	}

	SetDefault(nil)
	if GetDefault() == nil {
		t.Error("SetDefault(nil) must be ignored")
	}
}
