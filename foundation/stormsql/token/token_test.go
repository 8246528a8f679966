// File: token_test.go
// Title: Token Model Tests
// Description: Tests for token equality, locations, diagnostic formatting
//              and comment filtering.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package token

import (
	"testing"
)

func TestTokenEqual_IgnoresLocation(t *testing.T) {
	a := Token{Kind: Keyword, Value: "select", Location: Location{Line: 0, Column: 0}}
	b := Token{Kind: Keyword, Value: "select", Location: Location{Line: 4, Column: 9}}

	if !a.Equal(b) {
		t.Error("tokens with same kind and value should be equal")
	}
	if a.Equal(NewSymbol("select")) {
		t.Error("tokens with different kinds should not be equal")
	}
	if !a.Equal(NewKeyword(KeywordSelect)) {
		t.Error("token should match its keyword sentinel")
	}
}

func TestTokenValid(t *testing.T) {
	var zero Token
	if zero.Valid() {
		t.Error("zero token should not be valid")
	}
	if !(Token{Kind: EndOfFile}).Valid() {
		t.Error("EOF token should be valid")
	}
}

func TestLocationString(t *testing.T) {
	if got := (Location{}).String(); got != "1:1" {
		t.Errorf("Location{}.String() = %q, want 1:1", got)
	}
	if got := (Location{Line: 2, Column: 7}).String(); got != "3:8" {
		t.Errorf("String() = %q, want 3:8", got)
	}
}

func TestLocationBefore(t *testing.T) {
	tests := []struct {
		a, b Location
		want bool
	}{
		{Location{0, 1}, Location{0, 2}, true},
		{Location{0, 2}, Location{0, 2}, false},
		{Location{0, 9}, Location{1, 0}, true},
		{Location{1, 0}, Location{0, 9}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Errorf("%v.Before(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenFormat(t *testing.T) {
	tok := Token{Kind: Identifier, Value: "poles", Location: Location{Line: 0, Column: 14}}
	want := `{ "type": IDENTIFIER, "location": 1:15, "value": "poles" }`
	if got := tok.Format(); got != want {
		t.Errorf("Format() = %s, want %s", got, want)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		Keyword:        "KEYWORD",
		Symbol:         "SYMBOL",
		Identifier:     "IDENTIFIER",
		Comment:        "COMMENT",
		StringLiteral:  "STRING",
		NumericLiteral: "NUMBER",
		EndOfFile:      "EOF",
		None:           "Unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestFilterComments(t *testing.T) {
	in := []Token{
		NewKeyword(KeywordSelect),
		{Kind: Comment, Value: " note"},
		NewSymbol(SymbolAsterisk),
		{Kind: EndOfFile},
	}
	out := FilterComments(in)

	if len(out) != 3 {
		t.Fatalf("FilterComments() returned %d tokens, want 3", len(out))
	}
	for _, tok := range out {
		if tok.Kind == Comment {
			t.Error("comment survived filtering")
		}
	}
	if len(in) != 4 {
		t.Error("FilterComments() modified its input")
	}
}

func TestIsBoundary(t *testing.T) {
	for _, c := range []byte(" \t\r\n;*,()=<>!+-/") {
		if !IsBoundary(c) {
			t.Errorf("IsBoundary(%q) = false", c)
		}
	}
	for _, c := range []byte("aZ09._'") {
		if IsBoundary(c) {
			t.Errorf("IsBoundary(%q) = true", c)
		}
	}
}

func TestKeywordsOrder_IntoBeforeInt(t *testing.T) {
	into, in := -1, -1
	for i, k := range Keywords {
		switch k {
		case KeywordInto:
			into = i
		case KeywordInt:
			in = i
		}
	}
	if into < 0 || in < 0 || into > in {
		t.Errorf("into (%d) must precede int (%d)", into, in)
	}
}
