// File: expression.go
// Title: SQL Expression Parsing
// Description: Precedence climbing over binary operators. Higher binding
//              power binds tighter; equal powers associate to the left.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// BindingPower returns the precedence of a binary operator token, or 0 if
// the token is not an operator.
//
//	OR                    1
//	AND                   2
//	= <> != > >= < <=     3
//	+ -                   4
//	* /                   5
func BindingPower(op token.Token) int {
	switch op.Kind {
	case token.Keyword:
		switch op.Value {
		case token.KeywordOr:
			return 1
		case token.KeywordAnd:
			return 2
		}
	case token.Symbol:
		switch op.Value {
		case token.SymbolEquals, token.SymbolNotEquals, token.SymbolNotEquals2,
			token.SymbolGT, token.SymbolGTE, token.SymbolLT, token.SymbolLTE:
			return 3
		case token.SymbolPlus, token.SymbolMinus:
			return 4
		case token.SymbolMultiply, token.SymbolDivide:
			return 5
		}
	}
	return 0
}

// parseExpr parses a full expression; it is the element parser for lists
func (s *state) parseExpr(delims []token.Token) (ast.Expression, *SyntaxError) {
	return s.parseExpression(delims, 0)
}

// parseExpression parses a primary followed by operators binding tighter
// than minPower. An operator at or below minPower is left unconsumed for
// the caller, which makes chains of equal power left-associative.
func (s *state) parseExpression(delims []token.Token, minPower int) (ast.Expression, *SyntaxError) {
	expr, err := s.parsePrimary(delims)
	if err != nil {
		return nil, err
	}

	for !s.atDelimiter(delims) {
		op := s.current()
		power := BindingPower(op)
		if power == 0 {
			return nil, s.errorf("expected binary operation")
		}
		if power <= minPower {
			// the operator belongs to an enclosing call. Stopping on equal
			// power, not only lower, is what makes 1-2-3 read as (1-2)-3
			// rather than the right-leaning 1-(2-3).
			break
		}
		s.cursor++

		right, err := s.parseExpression(delims, power)
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

// parsePrimary parses a parenthesised sub-expression or a literal
func (s *state) parsePrimary(delims []token.Token) (ast.Expression, *SyntaxError) {
	if !s.check(leftParen) {
		return s.parseLiteral()
	}
	s.cursor++

	inner, err := s.parseExpression(withDelimiter(delims, rightParen), 0)
	if err != nil {
		return nil, err
	}
	if !s.check(rightParen) {
		return nil, s.errorf("expected ')'")
	}
	s.cursor++
	return inner, nil
}

func (s *state) parseLiteral() (ast.Expression, *SyntaxError) {
	for _, kind := range []token.Kind{token.Identifier, token.NumericLiteral, token.StringLiteral} {
		if tok, ok := s.accept(kind); ok {
			return &ast.Literal{Token: tok}, nil
		}
	}
	return nil, s.errorf("expected literal")
}
