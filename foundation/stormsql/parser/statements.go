// File: statements.go
// Title: SQL Statement Parsing
// Description: Grammar rules for SELECT, INSERT and CREATE TABLE.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package parser

import (
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// SELECT columns [FROM table [WHERE condition]]
func (s *state) parseSelect() (ast.Statement, *SyntaxError) {
	stmt := &ast.Select{Location: s.current().Location}
	s.cursor++

	start := s.cursor
	columns, err := parseList(s, []token.Token{keywordFrom, keywordWhere, semicolon}, (*state).parseExpr)
	if err != nil {
		// a lone * is not an expression but is a valid column list
		s.cursor = start
		if !s.check(asterisk) {
			return nil, err
		}
		columns = []ast.Expression{&ast.Literal{Token: s.current()}}
		s.cursor++
	}
	if len(columns) == 0 {
		return nil, s.errorf("expected column identifiers")
	}
	stmt.Columns = columns

	if s.check(keywordFrom) {
		s.cursor++
		table, ok := s.accept(token.Identifier)
		if !ok {
			return nil, s.errorf("expected table identifier")
		}
		stmt.Table = &table
	}

	if s.check(keywordWhere) {
		if stmt.Table == nil {
			return nil, s.errorf("WHERE clause found with no FROM clause")
		}
		s.cursor++
		where, err := s.parseExpression([]token.Token{semicolon}, 0)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

// INSERT INTO table VALUES (values)
func (s *state) parseInsert() (ast.Statement, *SyntaxError) {
	stmt := &ast.Insert{Location: s.current().Location}
	s.cursor++

	if !s.check(keywordInto) {
		return nil, s.errorf("expected INTO keyword")
	}
	s.cursor++

	table, ok := s.accept(token.Identifier)
	if !ok {
		return nil, s.errorf("expected table identifier")
	}
	stmt.Table = table

	if !s.check(keywordValues) {
		return nil, s.errorf("expected VALUES keyword")
	}
	s.cursor++

	if !s.check(leftParen) {
		return nil, s.errorf("expected '('")
	}
	s.cursor++

	values, err := parseList(s, []token.Token{rightParen}, (*state).parseExpr)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, s.errorf("expected values")
	}
	stmt.Values = values

	if !s.check(rightParen) {
		return nil, s.errorf("expected ')'")
	}
	s.cursor++

	return stmt, nil
}

// CREATE TABLE name (column type, ...)
func (s *state) parseCreate() (ast.Statement, *SyntaxError) {
	stmt := &ast.Create{Location: s.current().Location}
	s.cursor++

	if !s.check(keywordTable) {
		return nil, s.errorf("expected TABLE keyword")
	}
	s.cursor++

	name, ok := s.accept(token.Identifier)
	if !ok {
		return nil, s.errorf("expected table name identifier")
	}
	stmt.Name = name

	if !s.check(leftParen) {
		return nil, s.errorf("expected '('")
	}
	s.cursor++

	columns, err := parseList(s, []token.Token{rightParen}, (*state).parseColumnDefinition)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, s.errorf("table requires at least 1 column")
	}
	stmt.Columns = columns

	if !s.check(rightParen) {
		return nil, s.errorf("expected ')'")
	}
	s.cursor++

	return stmt, nil
}

func (s *state) parseColumnDefinition(_ []token.Token) (ast.ColumnDefinition, *SyntaxError) {
	name, ok := s.accept(token.Identifier)
	if !ok {
		return ast.ColumnDefinition{}, s.errorf("expected column name identifier")
	}
	for _, dt := range datatypes {
		if s.check(dt) {
			def := ast.ColumnDefinition{Name: name, Datatype: s.current()}
			s.cursor++
			return def, nil
		}
	}
	return ast.ColumnDefinition{}, s.errorf("expected column type definition")
}
