// File: parser.go
// Title: SQL Parser
// Description: Recursive descent parser for SELECT, INSERT and CREATE TABLE
//              statements. Expressions are parsed by precedence climbing with
//              backtracking over the operator that ends a sub-expression.
//              The first syntax error aborts the whole parse.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// SyntaxError describes the first parse failure
type SyntaxError struct {
	Location token.Location
	Reason   string
	// Got is the token found where the grammar expected something else
	Got     token.Token
	Message string
}

// Error returns "[line:col]: <reason>, got: <token>"
func (e *SyntaxError) Error() string {
	return e.Message
}

// Result holds the statements parsed before the first error, and the error
type Result struct {
	Statements []ast.Statement
	Err        *SyntaxError
}

// OK reports whether the whole token stream parsed
func (r Result) OK() bool {
	return r.Err == nil
}

// Options configures parser behavior
type Options struct {
	// Logger receives debug diagnostics; nil disables logging
	Logger *mdwlog.Logger
}

// Parser builds statement trees from comment-free token streams. It holds
// no per-call state and is safe for concurrent use.
type Parser struct {
	logger *mdwlog.Logger
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	return &Parser{logger: logger.WithField("component", "sql-parser")}
}

// Parse parses tokens without a logger
func Parse(tokens []token.Token) Result {
	return New(Options{}).Parse(tokens)
}

var (
	semicolon  = token.NewSymbol(token.SymbolSemicolon)
	comma      = token.NewSymbol(token.SymbolComma)
	asterisk   = token.NewSymbol(token.SymbolAsterisk)
	leftParen  = token.NewSymbol(token.SymbolLeftParen)
	rightParen = token.NewSymbol(token.SymbolRightParen)

	keywordSelect = token.NewKeyword(token.KeywordSelect)
	keywordInsert = token.NewKeyword(token.KeywordInsert)
	keywordCreate = token.NewKeyword(token.KeywordCreate)
	keywordFrom   = token.NewKeyword(token.KeywordFrom)
	keywordWhere  = token.NewKeyword(token.KeywordWhere)
	keywordInto   = token.NewKeyword(token.KeywordInto)
	keywordValues = token.NewKeyword(token.KeywordValues)
	keywordTable  = token.NewKeyword(token.KeywordTable)

	datatypes = []token.Token{
		token.NewKeyword(token.KeywordInt),
		token.NewKeyword(token.KeywordText),
		token.NewKeyword(token.KeywordBoolean),
	}
)

// Parse parses every statement in tokens. Comment tokens must have been
// removed, see token.FilterComments.
func (p *Parser) Parse(tokens []token.Token) Result {
	var result Result
	s := &state{tokens: tokens}

	for !s.atEnd() && s.current().Kind != token.EndOfFile {
		stmt, err := s.parseStatement()
		if err != nil {
			result.Err = err
			break
		}
		result.Statements = append(result.Statements, stmt)

		// redundant semicolons are accepted
		terminated := false
		for s.check(semicolon) {
			s.cursor++
			terminated = true
		}
		if !terminated {
			result.Err = s.errorf("expected semi-colon")
			break
		}
	}

	if result.Err != nil {
		p.logger.Debug("parse failed", mdwlog.Fields{
			"location":   result.Err.Location.String(),
			"reason":     result.Err.Reason,
			"statements": len(result.Statements),
		})
	} else {
		p.logger.Debug("tokens parsed", mdwlog.Fields{
			"tokens":     len(tokens),
			"statements": len(result.Statements),
		})
	}
	return result
}

// state is the cursor over one token stream
type state struct {
	tokens []token.Token
	cursor int
}

func (s *state) atEnd() bool {
	return s.cursor >= len(s.tokens)
}

func (s *state) current() token.Token {
	return s.tokens[s.cursor]
}

// check reports whether the token at the cursor equals sentinel
func (s *state) check(sentinel token.Token) bool {
	return !s.atEnd() && s.current().Equal(sentinel)
}

// accept consumes the token at the cursor if it has the given kind
func (s *state) accept(kind token.Kind) (token.Token, bool) {
	if s.atEnd() || s.current().Kind != kind {
		return token.Token{}, false
	}
	s.cursor++
	return s.tokens[s.cursor-1], true
}

// atDelimiter reports whether the cursor is at EOF or at one of delims
func (s *state) atDelimiter(delims []token.Token) bool {
	if s.atEnd() || s.current().Kind == token.EndOfFile {
		return true
	}
	for _, d := range delims {
		if s.current().Equal(d) {
			return true
		}
	}
	return false
}

// errorf builds a SyntaxError at the cursor. Past the end of the stream the
// last token is reported instead.
func (s *state) errorf(reason string) *SyntaxError {
	var got token.Token
	switch {
	case len(s.tokens) == 0:
		got = token.Token{Kind: token.EndOfFile}
	case s.atEnd():
		got = s.tokens[len(s.tokens)-1]
	default:
		got = s.current()
	}

	return &SyntaxError{
		Location: got.Location,
		Reason:   reason,
		Got:      got,
		Message:  fmt.Sprintf("[%s]: %s, got: %s", got.Location, reason, describe(got)),
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EndOfFile:
		return "EOF"
	case token.Symbol:
		return "'" + t.Value + "'"
	default:
		return t.Value
	}
}

// withDelimiter returns delims extended by extra. A set that already holds
// extra is returned as is, so nested parentheses share one slice.
func withDelimiter(delims []token.Token, extra token.Token) []token.Token {
	for _, d := range delims {
		if d.Equal(extra) {
			return delims
		}
	}
	combined := make([]token.Token, 0, len(delims)+1)
	combined = append(combined, delims...)
	return append(combined, extra)
}

func (s *state) parseStatement() (ast.Statement, *SyntaxError) {
	switch {
	case s.check(keywordSelect):
		return s.parseSelect()
	case s.check(keywordInsert):
		return s.parseInsert()
	case s.check(keywordCreate):
		return s.parseCreate()
	default:
		return nil, s.errorf("expected statement")
	}
}

// parseList parses delimiter-terminated, comma-separated elements. Each
// element sees the caller's delimiters plus the comma.
func parseList[T any](s *state, delims []token.Token, element func(*state, []token.Token) (T, *SyntaxError)) ([]T, *SyntaxError) {
	var result []T
	elementDelims := withDelimiter(delims, comma)

	for !s.atDelimiter(delims) {
		if len(result) > 0 {
			if !s.check(comma) {
				return nil, s.errorf("expected comma")
			}
			s.cursor++
		}
		el, err := element(s, elementDelims)
		if err != nil {
			return nil, err
		}
		result = append(result, el)
	}
	return result, nil
}
