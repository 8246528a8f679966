// File: reconstruct.go
// Title: SQL Source Reconstructor
// Description: Renders a token stream back into source text, aligning each
//              token to its recorded location. Keywords are upper-cased and
//              string literals re-quoted, so the output is a canonical form
//              of the input that lexes to an equivalent token stream.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial reconstructor

package reconstruct

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// OrderError reports a token located before the running output position.
// Lexer output never triggers it; Reconstruct panics with it because a
// non-monotonic stream is a programming error.
type OrderError struct {
	Index   int
	Token   token.Token
	Running token.Location
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("token %d (%s) at %s precedes output position %s",
		e.Index, e.Token.Kind, e.Token.Location, e.Running)
}

// Reconstruct renders tokens as source text. It panics with *OrderError
// when a token lies before the text already written; use Validate first
// for streams that did not come from the lexer.
func Reconstruct(tokens []token.Token) string {
	var out strings.Builder
	var running token.Location

	for i, tok := range tokens {
		if !inOrder(running, tok.Location) {
			panic(&OrderError{Index: i, Token: tok, Running: running})
		}
		pad(&out, running, tok.Location)

		if tok.Kind == token.EndOfFile {
			continue
		}
		text := Render(tok)
		out.WriteString(text)
		running = tok.Location
		running.Column += utf8.RuneCountInString(text)
	}

	return out.String()
}

// Validate reports the first token that would make Reconstruct panic
func Validate(tokens []token.Token) error {
	var running token.Location
	for i, tok := range tokens {
		if !inOrder(running, tok.Location) {
			return &OrderError{Index: i, Token: tok, Running: running}
		}
		if tok.Kind == token.EndOfFile {
			continue
		}
		running = tok.Location
		running.Column += utf8.RuneCountInString(Render(tok))
	}
	return nil
}

// Render returns the canonical source text of a single token
func Render(tok token.Token) string {
	switch tok.Kind {
	case token.Keyword:
		return strings.ToUpper(tok.Value)
	case token.StringLiteral:
		return "'" + strings.ReplaceAll(tok.Value, "'", "''") + "'"
	case token.Comment:
		return "--" + tok.Value
	case token.EndOfFile:
		return ""
	default:
		return tok.Value
	}
}

func inOrder(running, at token.Location) bool {
	return at.Line > running.Line || (at.Line == running.Line && at.Column >= running.Column)
}

// pad writes the newlines and spaces that move the output from running to at
func pad(out *strings.Builder, running, at token.Location) {
	if at.Line > running.Line {
		out.WriteString(strings.Repeat("\n", at.Line-running.Line))
		out.WriteString(strings.Repeat(" ", at.Column))
		return
	}
	if at.Column > running.Column {
		out.WriteString(strings.Repeat(" ", at.Column-running.Column))
	}
}
