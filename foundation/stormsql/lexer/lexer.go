// File: lexer.go
// Title: SQL Lexical Analyzer
// Description: Converts SQL source text into a token stream. Sub-lexers are
//              tried in a fixed priority order at every non-whitespace
//              position and the first match wins. The first unrecognised
//              fragment stops scanning with an UnknownToken error.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial lexer implementation

package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// ErrorKind classifies lexer errors
type ErrorKind int

const (
	// UnknownToken means no sub-lexer matched at the cursor
	UnknownToken ErrorKind = iota
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case UnknownToken:
		return "UnknownToken"
	default:
		return "Unknown"
	}
}

// Error is a lexer diagnostic. It is returned as data in Result.Errors.
type Error struct {
	Kind        ErrorKind
	Location    token.Location
	Fragment    string
	Description string
}

// Error renders the diagnostic as "UnknownToken Error: <description>"
func (e *Error) Error() string {
	return e.Kind.String() + " Error: " + e.Description
}

// Result holds the outcome of one Lex call. Tokens and Errors are mutually
// exclusive: when Errors is non-empty, Tokens is a partial prefix without a
// trailing EndOfFile token.
type Result struct {
	Tokens []token.Token
	Errors []*Error
}

// OK reports whether lexing succeeded
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the first error or nil
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Options configures lexer behavior
type Options struct {
	// IncludeComments keeps Comment tokens in the output stream
	IncludeComments bool
	// Logger receives debug diagnostics; nil disables logging
	Logger *mdwlog.Logger
}

// Lexer turns source text into tokens. A Lexer holds no per-call state and
// is safe for concurrent use.
type Lexer struct {
	includeComments bool
	logger          *mdwlog.Logger
}

// New creates a lexer with the given options
func New(opts Options) *Lexer {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	return &Lexer{
		includeComments: opts.IncludeComments,
		logger:          logger.WithField("component", "sql-lexer"),
	}
}

// Lex tokenizes source without a logger
func Lex(source string, includeComments bool) Result {
	return New(Options{IncludeComments: includeComments}).Lex(source)
}

type cursor struct {
	pos int
	loc token.Location
}

type scanner struct {
	src string
	cur cursor
}

type subLexer func(s *scanner) (token.Token, bool)

// Priority order. Numbers come before symbols so "-5" is not split into a
// minus sign, keywords before identifiers so "select" is not an identifier.
var subLexers = []subLexer{
	(*scanner).lexKeyword,
	(*scanner).lexComment,
	(*scanner).lexNumber,
	(*scanner).lexString,
	(*scanner).lexSymbol,
	(*scanner).lexIdentifier,
}

// Lex tokenizes source
func (l *Lexer) Lex(source string) Result {
	var result Result
	s := &scanner{src: source}

	for s.cur.pos < len(s.src) {
		c := s.src[s.cur.pos]
		if token.IsWhitespace(c) {
			s.skipWhitespace(c)
			continue
		}

		tok, found := s.next()
		if !found {
			err := s.unknownToken(result.Tokens)
			l.logger.Debug("lexing stopped", mdwlog.Fields{
				"location": err.Location.String(),
				"fragment": err.Fragment,
			})
			result.Errors = append(result.Errors, err)
			break
		}

		if tok.Kind == token.Comment && !l.includeComments {
			continue
		}
		if l.logger.IsLevelEnabled(mdwlog.LevelTrace) {
			l.logger.Trace("token", mdwlog.Fields{"token": tok.Format()})
		}
		result.Tokens = append(result.Tokens, tok)
	}

	if len(result.Errors) == 0 {
		result.Tokens = append(result.Tokens, token.Token{Kind: token.EndOfFile, Location: s.cur.loc})
		l.logger.Debug("source lexed", mdwlog.Fields{
			"bytes":  len(source),
			"tokens": len(result.Tokens),
		})
	}

	return result
}

func (s *scanner) next() (token.Token, bool) {
	for _, lex := range subLexers {
		if tok, ok := lex(s); ok {
			return tok, true
		}
	}
	return token.Token{}, false
}

func (s *scanner) skipWhitespace(c byte) {
	s.cur.pos++
	if token.IsNewline(c) {
		s.cur.loc.Line++
		s.cur.loc.Column = 0
		return
	}
	s.cur.loc.Column++
}

// advance moves the cursor over n bytes on the current line
func (s *scanner) advance(n int) {
	s.cur.loc.Column += utf8.RuneCountInString(s.src[s.cur.pos : s.cur.pos+n])
	s.cur.pos += n
}

func (s *scanner) emit(kind token.Kind, value string, n int) (token.Token, bool) {
	tok := token.Token{Kind: kind, Value: value, Location: s.cur.loc}
	s.advance(n)
	return tok, true
}

// nextBoundary returns the offset of the first whitespace or symbol start
// after the cursor character, or len(src).
func (s *scanner) nextBoundary() int {
	for i := s.cur.pos + 1; i < len(s.src); i++ {
		if token.IsBoundary(s.src[i]) {
			return i
		}
	}
	return len(s.src)
}

// longestMatch returns the longest option found at the cursor. Options are
// compared ASCII case-insensitively. Once a match is longer than separation
// no later option can beat it.
func (s *scanner) longestMatch(options []string, separation int, requireBoundary bool) string {
	best := ""
	for _, option := range options {
		end := s.cur.pos + len(option)
		if len(option) <= len(best) || end > len(s.src) {
			continue
		}
		if !equalFoldASCII(s.src[s.cur.pos:end], option) {
			continue
		}
		if requireBoundary && end < len(s.src) && !token.IsBoundary(s.src[end]) {
			continue
		}
		best = option
		if len(best) > separation {
			break
		}
	}
	return best
}

func (s *scanner) lexKeyword() (token.Token, bool) {
	keyword := s.longestMatch(token.Keywords, token.KeywordSeparation, true)
	if keyword == "" {
		return token.Token{}, false
	}
	return s.emit(token.Keyword, keyword, len(keyword))
}

func (s *scanner) lexComment() (token.Token, bool) {
	pos := s.cur.pos
	if pos >= len(s.src)-1 || s.src[pos] != '-' || s.src[pos+1] != '-' {
		return token.Token{}, false
	}
	end := strings.IndexByte(s.src[pos+2:], '\n')
	if end < 0 {
		end = len(s.src)
	} else {
		end += pos + 2
	}
	return s.emit(token.Comment, s.src[pos+2:end], end-pos)
}

func (s *scanner) lexNumber() (token.Token, bool) {
	c := s.src[s.cur.pos]
	if c != '-' && !isDigit(c) {
		return token.Token{}, false
	}
	end := s.nextBoundary()
	text := s.src[s.cur.pos:end]
	if !validNumber(text) {
		return token.Token{}, false
	}
	return s.emit(token.NumericLiteral, text, len(text))
}

// validNumber accepts an optional leading minus, at least one digit and an
// optional fraction of at least one digit.
func validNumber(text string) bool {
	i := 0
	if i < len(text) && text[i] == '-' {
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i == start {
		return false
	}
	if i == len(text) {
		return true
	}
	if text[i] != '.' {
		return false
	}
	i++
	fraction := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	return i > fraction && i == len(text)
}

func (s *scanner) lexString() (token.Token, bool) {
	pos := s.cur.pos
	if s.src[pos] != '\'' {
		return token.Token{}, false
	}

	var value strings.Builder
	for i := pos + 1; i < len(s.src); i++ {
		c := s.src[i]
		if c != '\'' {
			value.WriteByte(c)
			continue
		}
		if i+1 < len(s.src) && s.src[i+1] == '\'' {
			value.WriteByte('\'')
			i++
			continue
		}
		return s.emit(token.StringLiteral, value.String(), i+1-pos)
	}

	// unterminated
	return token.Token{}, false
}

func (s *scanner) lexSymbol() (token.Token, bool) {
	symbol := s.longestMatch(token.Symbols, token.SymbolSeparation, false)
	if symbol == "" {
		return token.Token{}, false
	}
	return s.emit(token.Symbol, symbol, len(symbol))
}

func (s *scanner) lexIdentifier() (token.Token, bool) {
	end := s.nextBoundary()
	text := s.src[s.cur.pos:end]
	if text == "" || !isLetter(text[0]) {
		return token.Token{}, false
	}
	// ASCII folding only: a folded non-ASCII letter could spell a keyword
	return s.emit(token.Identifier, lowerASCII(text), len(text))
}

func (s *scanner) unknownToken(emitted []token.Token) *Error {
	fragment := s.src[s.cur.pos:s.nextBoundary()]

	description := fmt.Sprintf("%s: unable to lex token %s", s.cur.loc, fragment)
	if len(emitted) > 0 {
		description += " after " + emitted[len(emitted)-1].Value
	}

	return &Error{
		Kind:        UnknownToken,
		Location:    s.cur.loc,
		Fragment:    fragment,
		Description: description,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func equalFoldASCII(s, lower string) bool {
	for i := 0; i < len(lower); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
