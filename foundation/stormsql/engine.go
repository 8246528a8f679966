// File: engine.go
// Title: StormSQL Front-End Engine
// Description: High-level interface that lexes, parses and reconstructs SQL
//              source in one call and reports failures as coded errors.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial front-end engine

package stormsql

import (
	"time"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/lexer"
	"github.com/msto63/stormsql/foundation/stormsql/parser"
	"github.com/msto63/stormsql/foundation/stormsql/reconstruct"
	"github.com/msto63/stormsql/foundation/stormsql/token"
	mdwstringx "github.com/msto63/stormsql/foundation/utils/stringx"
)

// DefaultMaxSourceBytes limits the size of a single source text
const DefaultMaxSourceBytes = 1 << 20

// Options configures the engine
type Options struct {
	Logger *mdwlog.Logger
	// IncludeComments keeps comments in Analysis.Tokens and the
	// reconstructed text. The parser never sees them.
	IncludeComments bool
	// MaxSourceBytes rejects larger input; 0 means DefaultMaxSourceBytes
	MaxSourceBytes int
}

// Engine runs the SQL front-end. It is safe for concurrent use.
type Engine struct {
	lexer   *lexer.Lexer
	parser  *parser.Parser
	logger  *mdwlog.Logger
	options Options
}

// Analysis is the outcome of running one source text through the front-end
type Analysis struct {
	Source     string
	Tokens     []token.Token
	LexErrors  []*lexer.Error
	Statements []ast.Statement
	ParseError *parser.SyntaxError
	// Reconstructed is empty when lexing failed
	Reconstructed string
	RoundTripOK   bool
	Duration      time.Duration
}

// OK reports whether the source lexed, parsed and round-tripped cleanly
func (a *Analysis) OK() bool {
	return len(a.LexErrors) == 0 && a.ParseError == nil && a.RoundTripOK
}

// Err returns the first failure as a coded error, or nil
func (a *Analysis) Err() error {
	switch {
	case len(a.LexErrors) > 0:
		lexErr := a.LexErrors[0]
		return mdwerror.Wrap(lexErr, "lexing failed").
			WithCode(mdwerror.CodeSQLLex).
			WithOperation("lex").
			WithDetail("location", lexErr.Location.String()).
			WithDetail("fragment", lexErr.Fragment)
	case a.ParseError != nil:
		return mdwerror.Wrap(a.ParseError, "parsing failed").
			WithCode(mdwerror.CodeSQLSyntax).
			WithOperation("parse").
			WithDetail("location", a.ParseError.Location.String()).
			WithDetail("reason", a.ParseError.Reason)
	case !a.RoundTripOK:
		return mdwerror.New("reconstructed source does not lex to the same tokens").
			WithCode(mdwerror.CodeSQLRoundTrip).
			WithOperation("reconstruct")
	default:
		return nil
	}
}

// New creates a front-end engine
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.NewNop()
	}
	if opts.MaxSourceBytes <= 0 {
		opts.MaxSourceBytes = DefaultMaxSourceBytes
	}

	logger := opts.Logger.WithField("component", "sql-engine")

	return &Engine{
		lexer:   lexer.New(lexer.Options{IncludeComments: opts.IncludeComments, Logger: opts.Logger}),
		parser:  parser.New(parser.Options{Logger: opts.Logger}),
		logger:  logger,
		options: opts,
	}
}

// IncludesComments reports whether comments are kept in token output
func (e *Engine) IncludesComments() bool {
	return e.options.IncludeComments
}

func (e *Engine) checkSource(source string) error {
	if len(source) > e.options.MaxSourceBytes {
		return mdwerror.Newf("source exceeds maximum size: %d > %d bytes", len(source), e.options.MaxSourceBytes).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("bytes", len(source))
	}
	return nil
}

// Lex tokenizes source
func (e *Engine) Lex(source string) (lexer.Result, error) {
	if err := e.checkSource(source); err != nil {
		return lexer.Result{}, err
	}
	return e.lexer.Lex(source), nil
}

// Format returns the canonical reconstruction of source
func (e *Engine) Format(source string) (string, error) {
	result, err := e.Lex(source)
	if err != nil {
		return "", err
	}
	if !result.OK() {
		return "", (&Analysis{LexErrors: result.Errors}).Err()
	}
	return reconstruct.Reconstruct(result.Tokens), nil
}

// Analyze runs source through every stage. The returned error is only set
// when the input is rejected up front; lex and parse failures are part of
// the Analysis.
func (e *Engine) Analyze(source string) (*Analysis, error) {
	if err := e.checkSource(source); err != nil {
		return nil, err
	}

	start := time.Now()
	analysis := &Analysis{Source: source}

	lexed := e.lexer.Lex(source)
	analysis.Tokens = lexed.Tokens
	analysis.LexErrors = lexed.Errors

	if lexed.OK() {
		analysis.Reconstructed = reconstruct.Reconstruct(lexed.Tokens)
		analysis.RoundTripOK = roundTrips(lexed.Tokens, analysis.Reconstructed)

		parsed := e.parser.Parse(token.FilterComments(lexed.Tokens))
		analysis.Statements = parsed.Statements
		analysis.ParseError = parsed.Err
	}

	analysis.Duration = time.Since(start)

	e.logger.Debug("source analyzed", mdwlog.Fields{
		"source":     mdwstringx.Truncate(source, 60, "..."),
		"tokens":     len(analysis.Tokens),
		"statements": len(analysis.Statements),
		"ok":         analysis.OK(),
		"duration":   analysis.Duration.String(),
	})

	return analysis, nil
}

// VerifyRoundTrip reconstructs tokens, lexes the result with comments and
// checks that the same kinds and values come back. Location differences
// are ignored.
func VerifyRoundTrip(tokens []token.Token) error {
	if err := reconstruct.Validate(tokens); err != nil {
		return mdwerror.Wrap(err, "token stream cannot be reconstructed").
			WithCode(mdwerror.CodeInvalidInput)
	}
	if !roundTrips(tokens, reconstruct.Reconstruct(tokens)) {
		return mdwerror.New("reconstructed source does not lex to the same tokens").
			WithCode(mdwerror.CodeSQLRoundTrip)
	}
	return nil
}

func roundTrips(tokens []token.Token, text string) bool {
	hasComments := false
	for _, t := range tokens {
		if t.Kind == token.Comment {
			hasComments = true
			break
		}
	}
	again := lexer.Lex(text, hasComments)
	return again.OK() && token.EqualValues(tokens, again.Tokens)
}
