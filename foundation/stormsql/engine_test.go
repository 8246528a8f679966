// File: engine_test.go
// Title: StormSQL Front-End Engine Tests
// Description: End-to-end tests through lexer, parser and reconstructor,
//              including error code mapping.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package stormsql

import (
	"strings"
	"testing"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

func TestEngine_Analyze(t *testing.T) {
	engine := New(Options{IncludeComments: true})

	analysis, err := engine.Analyze("-- users\nselect id from Users where id = 5;")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !analysis.OK() {
		t.Fatalf("Analyze() not OK: %v", analysis.Err())
	}
	if analysis.Tokens[0].Kind != token.Comment {
		t.Errorf("first token = %v, want comment", analysis.Tokens[0])
	}
	if len(analysis.Statements) != 1 || analysis.Statements[0].Kind() != ast.SelectStatement {
		t.Fatalf("statements = %v", analysis.Statements)
	}
	if want := "-- users\nSELECT id FROM users WHERE id = 5;"; analysis.Reconstructed != want {
		t.Errorf("Reconstructed = %q, want %q", analysis.Reconstructed, want)
	}
	if analysis.Err() != nil {
		t.Errorf("Err() = %v, want nil", analysis.Err())
	}
}

func TestEngine_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   mdwerror.Code
		text   string
	}{
		{"Lex error", "SELECT 5abc;", mdwerror.CodeSQLLex, "unable to lex token 5abc after select"},
		{"Unterminated string", "SELECT 'abc;", mdwerror.CodeSQLLex, "unable to lex token 'abc after select"},
		{"Syntax error", "SELECT 1", mdwerror.CodeSQLSyntax, "expected semi-colon, got: EOF"},
		{"Leading operator", "SELECT + 5;", mdwerror.CodeSQLSyntax, "expected literal"},
	}

	engine := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := engine.Analyze(tt.source)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if analysis.OK() {
				t.Fatal("analysis should not be OK")
			}
			aerr := analysis.Err()
			if !mdwerror.HasCode(aerr, tt.code) {
				t.Errorf("code = %v, want %v", mdwerror.GetCode(aerr), tt.code)
			}
			if !strings.Contains(aerr.Error(), tt.text) {
				t.Errorf("Err() = %q, want it to contain %q", aerr.Error(), tt.text)
			}
		})
	}
}

func TestEngine_LexErrorSkipsParse(t *testing.T) {
	analysis, _ := New(Options{}).Analyze("SELECT 5abc;")
	if analysis.Statements != nil || analysis.ParseError != nil {
		t.Error("parser should not run after a lex error")
	}
	if analysis.Reconstructed != "" {
		t.Error("no reconstruction after a lex error")
	}
}

func TestEngine_MaxSourceBytes(t *testing.T) {
	engine := New(Options{MaxSourceBytes: 8})

	_, err := engine.Analyze("SELECT 1234567;")
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Analyze() error = %v, want INVALID_INPUT", err)
	}
	if _, err := engine.Lex("SELECT 1234567;"); err == nil {
		t.Error("Lex() should reject oversized input")
	}
}

func TestEngine_Format(t *testing.T) {
	engine := New(Options{IncludeComments: true})

	got, err := engine.Format("insert into t values (1, 'a''b'); -- x")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := "INSERT INTO t VALUES (1, 'a''b'); -- x"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if _, err := engine.Format("SELECT #"); !mdwerror.HasCode(err, mdwerror.CodeSQLLex) {
		t.Errorf("Format() error = %v, want SQL_LEX", err)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	analysis, _ := New(Options{IncludeComments: true}).Analyze("select a -- c\nfrom t;")
	if err := VerifyRoundTrip(analysis.Tokens); err != nil {
		t.Errorf("VerifyRoundTrip() = %v", err)
	}

	// an identifier whose text is a keyword cannot survive re-lexing
	forged := []token.Token{
		{Kind: token.Identifier, Value: "select"},
		{Kind: token.EndOfFile, Location: token.Location{Column: 6}},
	}
	if err := VerifyRoundTrip(forged); !mdwerror.HasCode(err, mdwerror.CodeSQLRoundTrip) {
		t.Errorf("VerifyRoundTrip() = %v, want SQL_ROUNDTRIP", err)
	}

	disordered := []token.Token{
		{Kind: token.Identifier, Value: "abc", Location: token.Location{Column: 5}},
		{Kind: token.Identifier, Value: "d", Location: token.Location{Column: 0}},
	}
	if err := VerifyRoundTrip(disordered); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("VerifyRoundTrip() = %v, want INVALID_INPUT", err)
	}
}

func TestVerifyRoundTrip_NonASCIIIdentifiers(t *testing.T) {
	engine := New(Options{})
	tests := []string{
		"SELECT naïve FROM t;",
		"SELECT Straße, intÜ FROM Café;",
		"INSERT INTO t VALUES (xÄBC);",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			result, err := engine.Lex(source)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			if !result.OK() {
				t.Fatalf("Lex(%q) errors = %v", source, result.Errors)
			}
			if err := VerifyRoundTrip(result.Tokens); err != nil {
				t.Errorf("VerifyRoundTrip(%q) = %v", source, err)
			}
		})
	}
}

func TestAnalysis_RoundTripError(t *testing.T) {
	a := &Analysis{RoundTripOK: false}
	if !mdwerror.HasCode(a.Err(), mdwerror.CodeSQLRoundTrip) {
		t.Errorf("Err() = %v, want SQL_ROUNDTRIP", a.Err())
	}
}
