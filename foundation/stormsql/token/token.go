// File: token.go
// Title: SQL Token Model
// Description: Token categories, source locations and token equality used by
//              the lexer, parser and reconstructor. Equality ignores location so
//              tokens can be matched against grammar sentinels.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial token model

package token

import (
	"fmt"
	"strconv"
)

// Kind represents the category of a lexical token
type Kind int

const (
	// None marks an unset token. It never appears in a lexer-produced stream.
	None Kind = iota
	EndOfFile

	Keyword
	Symbol
	Identifier
	Comment

	StringLiteral
	NumericLiteral
)

// String returns the diagnostic name of the kind
func (k Kind) String() string {
	switch k {
	case Keyword:
		return "KEYWORD"
	case Symbol:
		return "SYMBOL"
	case Identifier:
		return "IDENTIFIER"
	case Comment:
		return "COMMENT"
	case StringLiteral:
		return "STRING"
	case NumericLiteral:
		return "NUMBER"
	case EndOfFile:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Location is a zero-based position in the source. Column counts characters,
// Line counts newlines crossed.
type Location struct {
	Line   int
	Column int
}

// String renders the location 1-based as line:col
func (l Location) String() string {
	return strconv.Itoa(l.Line+1) + ":" + strconv.Itoa(l.Column+1)
}

// Before reports whether l comes strictly before other
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Token is a classified, located lexical unit of source text
type Token struct {
	Kind     Kind
	Value    string
	Location Location
}

// Equal compares kind and value only
func (t Token) Equal(other Token) bool {
	return t.Kind == other.Kind && t.Value == other.Value
}

// Valid reports whether the token has been set
func (t Token) Valid() bool {
	return t.Kind != None
}

// Is reports whether the token is of the given kind
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// Format renders the token in its diagnostic form:
//
//	{ "type": KEYWORD, "location": 1:1, "value": "select" }
func (t Token) Format() string {
	return fmt.Sprintf(`{ "type": %s, "location": %s, "value": "%s" }`, t.Kind, t.Location, t.Value)
}

// String is the raw value, or EOF for the end marker
func (t Token) String() string {
	if t.Kind == EndOfFile {
		return "EOF"
	}
	return t.Value
}

// FilterComments returns a copy of tokens without Comment tokens
func FilterComments(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != Comment {
			result = append(result, t)
		}
	}
	return result
}

// EqualValues compares two streams kind+value wise, ignoring locations
func EqualValues(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
