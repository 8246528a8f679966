// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context derivation, formatters
//              and severity aware error logging.
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf}), &buf
}

func TestNew(t *testing.T) {
	logger := New()

	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestLoggerWithField_DoesNotMutateReceiver(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatJSON)
	derived := base.WithField("component", "lexer")

	if derived == base {
		t.Fatal("WithField() should return a new logger instance")
	}
	if _, ok := base.contextFields["component"]; ok {
		t.Error("WithField() modified the receiver")
	}

	derived.Info("hello")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if decoded["component"] != "lexer" {
		t.Errorf("component = %v, want lexer", decoded["component"])
	}
	if decoded["message"] != "hello" {
		t.Errorf("message = %v, want hello", decoded["message"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if !strings.Contains(out, "[WRN] shown") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()

	for _, level := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if logger.IsLevelEnabled(level) {
			t.Errorf("nop logger enables %v", level)
		}
	}
	// must not panic
	logger.WithField("k", "v").Error("ignored")
}

func TestTextFormatter_SortedFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.WithRequestID("r-1").Info("parsed", Fields{"b": 2, "a": 1})

	out := buf.String()
	if !strings.Contains(out, "(req=r-1) parsed [a=1 b=2]") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestLogError_SeverityLevels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"syntax error logs at info", mdwerror.New("bad").WithCode(mdwerror.CodeSQLSyntax), "[INF]"},
		{"config error logs at warn", mdwerror.New("bad").WithCode(mdwerror.CodeConfigError), "[WRN]"},
		{"storage error logs at error", mdwerror.New("bad").WithCode(mdwerror.CodeStorageError), "[ERR]"},
		{"plain error logs at error", errors.New("bad"), "[ERR]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatText)
			logger.LogError(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("LogError() output = %q, want level %s", buf.String(), tt.want)
			}
		})
	}
}

func TestTimer_StopLogsOnce(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	timer := logger.StartTimer("parse").WithField("statements", 2)
	timer.Stop()
	timer.Stop()

	out := buf.String()
	if strings.Count(out, "parse completed") != 1 {
		t.Errorf("timer logged %d times: %q", strings.Count(out, "parse completed"), out)
	}
	if !strings.Contains(out, "statements=2") {
		t.Errorf("timer field missing: %q", out)
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if lvl, err := ParseLevel("WARNING"); err != nil || lvl != LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("console"); err != nil || f != FormatConsole {
		t.Errorf("ParseFormat(console) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
