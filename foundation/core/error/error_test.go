// File: error_test.go
// Title: Core Error Tests
// Description: Tests for error construction, wrapping and code lookup.
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("boom")

	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWithCode_SetsSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeSQLLex, SeverityLow},
		{CodeSQLSyntax, SeverityLow},
		{CodeConfigError, SeverityMedium},
		{CodeStorageError, SeverityHigh},
		{CodeInternal, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.severity {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.severity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Fatal("Wrap(nil) should return nil")
	}

	inner := New("unable to lex token 5abc").
		WithCode(CodeSQLLex).
		WithDetail("location", "1:1")
	outer := Wrap(inner, "analysis failed")

	if outer.Code() != CodeSQLLex {
		t.Errorf("wrapped code = %v, want %v", outer.Code(), CodeSQLLex)
	}
	if outer.Details()["location"] != "1:1" {
		t.Errorf("wrapped details not inherited: %v", outer.Details())
	}
	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find the inner error")
	}
	if outer.Error() != "analysis failed: unable to lex token 5abc" {
		t.Errorf("Error() = %q", outer.Error())
	}
}

func TestWrap_StandardError(t *testing.T) {
	std := fmt.Errorf("disk full")
	wrapped := Wrap(std, "history write")

	if wrapped.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", wrapped.Code(), CodeUnknown)
	}
	if errors.Unwrap(wrapped) != std {
		t.Error("Unwrap should return the standard error")
	}
}

func TestHasCode(t *testing.T) {
	err := New("bad").WithCode(CodeSQLSyntax)
	chained := fmt.Errorf("outer: %w", err)

	if !HasCode(chained, CodeSQLSyntax) {
		t.Error("HasCode should follow the chain")
	}
	if HasCode(chained, CodeSQLLex) {
		t.Error("HasCode matched the wrong code")
	}
	if GetCode(chained) != CodeSQLSyntax {
		t.Errorf("GetCode() = %v", GetCode(chained))
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode on plain error should be CodeUnknown")
	}
}

func TestCode_IsUserError(t *testing.T) {
	if !CodeSQLSyntax.IsUserError() {
		t.Error("syntax errors are user errors")
	}
	if CodeInternal.IsUserError() {
		t.Error("internal errors are not user errors")
	}
}

func TestError_String(t *testing.T) {
	err := New("bad").
		WithCode(CodeSQLSyntax).
		WithOperation("parse").
		WithRequestID("req-1").
		WithDetail("b", 2).
		WithDetail("a", 1)

	s := err.String()
	for _, want := range []string{"Code: SQL_SYNTAX", "Operation: parse", "RequestID: req-1", "Details: {a=1, b=2}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in:\n%s", want, s)
		}
	}
}

func TestError_MarshalJSON(t *testing.T) {
	err := Wrap(errors.New("cause"), "msg").WithCode(CodeStorageError)

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal() error = %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal() error = %v", jerr)
	}
	if decoded["code"] != "STORAGE_ERROR" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["severity"] != "high" {
		t.Errorf("severity = %v", decoded["severity"])
	}
	if decoded["cause"] != "cause" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}
