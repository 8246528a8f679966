// File: vocabulary.go
// Title: SQL Keywords and Symbols
// Description: The keyword and symbol vocabularies in lexer priority order,
//              plus the character classes used for token boundaries.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package token

// Keywords
const (
	KeywordSelect  = "select"
	KeywordFrom    = "from"
	KeywordAs      = "as"
	KeywordTable   = "table"
	KeywordCreate  = "create"
	KeywordInsert  = "insert"
	KeywordDrop    = "drop"
	KeywordWhere   = "where"
	KeywordInto    = "into"
	KeywordValues  = "values"
	KeywordInt     = "int"
	KeywordText    = "text"
	KeywordBoolean = "boolean"
	KeywordTrue    = "true"
	KeywordFalse   = "false"
	KeywordNull    = "null"
	KeywordAnd     = "and"
	KeywordOr      = "or"
)

// Keywords in match order. The order matters for the early exit in the
// lexer: "into" must be tried before "int".
var Keywords = []string{
	KeywordSelect,
	KeywordFrom,
	KeywordAs,
	KeywordTable,
	KeywordCreate,
	KeywordInsert,
	KeywordDrop,
	KeywordWhere,
	KeywordInto,
	KeywordValues,
	KeywordInt,
	KeywordText,
	KeywordBoolean,
	KeywordTrue,
	KeywordFalse,
	KeywordNull,
	KeywordAnd,
	KeywordOr,
}

// KeywordSeparation is the longest prefix any two keywords share. A match
// longer than this cannot be beaten by a later candidate.
const KeywordSeparation = 3

// Symbols
const (
	SymbolSemicolon  = ";"
	SymbolAsterisk   = "*"
	SymbolComma      = ","
	SymbolLeftParen  = "("
	SymbolRightParen = ")"
	SymbolEquals     = "="
	SymbolNotEquals  = "<>"
	SymbolNotEquals2 = "!="
	SymbolGTE        = ">="
	SymbolLTE        = "<="
	SymbolGT         = ">"
	SymbolLT         = "<"
	SymbolPlus       = "+"
	SymbolMinus      = "-"
	SymbolMultiply   = "*"
	SymbolDivide     = "/"
)

// Symbols in match order
var Symbols = []string{
	SymbolSemicolon,
	SymbolAsterisk,
	SymbolComma,
	SymbolLeftParen,
	SymbolRightParen,
	SymbolEquals,
	SymbolNotEquals,
	SymbolNotEquals2,
	SymbolGTE,
	SymbolLTE,
	SymbolGT,
	SymbolLT,
	SymbolPlus,
	SymbolMinus,
	SymbolMultiply,
	SymbolDivide,
}

// SymbolSeparation is the longest prefix any two symbols share
const SymbolSeparation = 1

// NewKeyword returns a keyword sentinel for matching with Equal
func NewKeyword(value string) Token {
	return Token{Kind: Keyword, Value: value}
}

// NewSymbol returns a symbol sentinel for matching with Equal
func NewSymbol(value string) Token {
	return Token{Kind: Symbol, Value: value}
}

// IsNewline reports whether c ends a line
func IsNewline(c byte) bool {
	return c == '\n'
}

// IsWhitespace reports whether c is skipped between tokens
func IsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || IsNewline(c)
}

// IsSymbolStart reports whether c can begin a symbol
func IsSymbolStart(c byte) bool {
	switch c {
	case ';', '*', ',', '(', ')', '=', '<', '>', '!', '+', '-', '/':
		return true
	default:
		return false
	}
}

// IsBoundary reports whether c terminates an identifier, number or keyword
func IsBoundary(c byte) bool {
	return IsWhitespace(c) || IsSymbolStart(c)
}
