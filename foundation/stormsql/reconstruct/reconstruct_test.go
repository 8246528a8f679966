// File: reconstruct_test.go
// Title: SQL Source Reconstructor Tests
// Description: Tests for token rendering, whitespace alignment, the
//              ordering precondition and lex/reconstruct round trips.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package reconstruct

import (
	"errors"
	"testing"

	"github.com/msto63/stormsql/foundation/stormsql/lexer"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

func TestRender(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want string
	}{
		{token.Token{Kind: token.Keyword, Value: "select"}, "SELECT"},
		{token.Token{Kind: token.StringLiteral, Value: "Hello's"}, "'Hello''s'"},
		{token.Token{Kind: token.StringLiteral, Value: ""}, "''"},
		{token.Token{Kind: token.Comment, Value: " note"}, "-- note"},
		{token.Token{Kind: token.EndOfFile}, ""},
		{token.Token{Kind: token.Identifier, Value: "poles"}, "poles"},
		{token.Token{Kind: token.NumericLiteral, Value: "-2.45"}, "-2.45"},
		{token.Token{Kind: token.Symbol, Value: "<>"}, "<>"},
	}
	for _, tt := range tests {
		if got := Render(tt.tok); got != tt.want {
			t.Errorf("Render(%v) = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Keywords upper-cased", "select * from poles;", "SELECT * FROM poles;"},
		{"Identifiers lower-cased", "SELECT Id FROM Users;", "SELECT id FROM users;"},
		{"Spacing kept", "SELECT  a ,b FROM t;", "SELECT  a ,b FROM t;"},
		{"Lines kept", "SELECT a\n  FROM t;", "SELECT a\n  FROM t;"},
		{"Escaped quote", "INSERT INTO t VALUES ('it''s');", "INSERT INTO t VALUES ('it''s');"},
		{"Comment", "SELECT 1; -- done", "SELECT 1; -- done"},
		{"Trailing newline", "SELECT 1;\n", "SELECT 1;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := lexer.Lex(tt.input, true)
			if !result.OK() {
				t.Fatalf("Lex(%q) failed: %v", tt.input, result.Err())
			}
			if got := Reconstruct(result.Tokens); got != tt.want {
				t.Errorf("Reconstruct() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconstruct_RoundTrip(t *testing.T) {
	sources := []string{
		"SELECT * FROM poles;",
		"INSERT into poles VALUES (1, -2.45, 'Hello''s');",
		"create table t (id int, name text, ok boolean);\n-- trailing\n",
		"SELECT a, b + 1 FROM t WHERE (a >= 2 AND b <> 'x''y') OR c != -1;",
		"SELECT 'héllo', Größe;",
	}

	for _, src := range sources {
		first := lexer.Lex(src, true)
		if !first.OK() {
			t.Fatalf("Lex(%q) failed: %v", src, first.Err())
		}
		text := Reconstruct(first.Tokens)

		second := lexer.Lex(text, true)
		if !second.OK() {
			t.Fatalf("re-lex of %q failed: %v", text, second.Err())
		}
		if !token.EqualValues(first.Tokens, second.Tokens) {
			t.Errorf("round trip changed tokens for %q\n first: %v\nsecond: %v", src, first.Tokens, second.Tokens)
		}
		if again := Reconstruct(second.Tokens); again != text {
			t.Errorf("reconstruction not idempotent: %q then %q", text, again)
		}
	}
}

func TestReconstruct_PanicsOnDisorder(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Identifier, Value: "abc", Location: token.Location{Line: 0, Column: 0}},
		{Kind: token.Identifier, Value: "x", Location: token.Location{Line: 0, Column: 1}},
	}

	err := Validate(tokens)
	var orderErr *OrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("Validate() = %v, want *OrderError", err)
	}
	if orderErr.Index != 1 {
		t.Errorf("Index = %d, want 1", orderErr.Index)
	}

	defer func() {
		r := recover()
		if _, ok := r.(*OrderError); !ok {
			t.Errorf("recover() = %v, want *OrderError", r)
		}
	}()
	Reconstruct(tokens)
	t.Error("Reconstruct() should panic")
}

func TestValidate_LexerOutput(t *testing.T) {
	result := lexer.Lex("SELECT a,\n b FROM t; -- c\n", true)
	if err := Validate(result.Tokens); err != nil {
		t.Errorf("Validate() on lexer output = %v", err)
	}
}
