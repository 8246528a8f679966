// File: nodes.go
// Title: SQL AST Node Definitions
// Description: Defines expression and statement nodes for SELECT, INSERT
//              and CREATE TABLE, with canonical string representations.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST node definitions

package ast

import (
	"strings"

	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// Node is implemented by every AST node
type Node interface {
	// String returns canonical SQL for the node
	String() string

	// Pos returns the location of the first token of the node
	Pos() token.Location
}

// Expression is a Literal or a Binary node
type Expression interface {
	Node
	expressionNode()
}

// StatementKind identifies the statement variant
type StatementKind int

const (
	SelectStatement StatementKind = iota
	InsertStatement
	CreateStatement
)

// String returns the SQL verb of the statement kind
func (k StatementKind) String() string {
	switch k {
	case SelectStatement:
		return "select"
	case InsertStatement:
		return "insert"
	case CreateStatement:
		return "create"
	default:
		return "unknown"
	}
}

// Statement is a Select, Insert or Create node
type Statement interface {
	Node
	Kind() StatementKind
	statementNode()
}

// Literal is an identifier, number, string or the select-all asterisk
type Literal struct {
	Token token.Token
}

// Binary is an operator applied to two operands
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

// Select is SELECT columns [FROM table [WHERE condition]]
type Select struct {
	Location token.Location
	Columns  []Expression
	// Table is nil when there is no FROM clause
	Table *token.Token
	// Where is nil when there is no WHERE clause
	Where Expression
}

// Insert is INSERT INTO table VALUES (values)
type Insert struct {
	Location token.Location
	Table    token.Token
	Values   []Expression
}

// Create is CREATE TABLE name (columns)
type Create struct {
	Location token.Location
	Name     token.Token
	Columns  []ColumnDefinition
}

// ColumnDefinition is a column name with one of the INT, TEXT or BOOLEAN keywords
type ColumnDefinition struct {
	Name     token.Token
	Datatype token.Token
}

func (*Literal) expressionNode() {}
func (*Binary) expressionNode()  {}

func (*Select) statementNode() {}
func (*Insert) statementNode() {}
func (*Create) statementNode() {}

func (*Select) Kind() StatementKind { return SelectStatement }
func (*Insert) Kind() StatementKind { return InsertStatement }
func (*Create) Kind() StatementKind { return CreateStatement }

func (l *Literal) Pos() token.Location { return l.Token.Location }
func (b *Binary) Pos() token.Location  { return b.Left.Pos() }
func (s *Select) Pos() token.Location  { return s.Location }
func (s *Insert) Pos() token.Location  { return s.Location }
func (s *Create) Pos() token.Location  { return s.Location }

func (l *Literal) String() string {
	if l.Token.Kind == token.StringLiteral {
		return "'" + strings.ReplaceAll(l.Token.Value, "'", "''") + "'"
	}
	return l.Token.Value
}

// String fully parenthesises the expression so precedence is visible
func (b *Binary) String() string {
	op := b.Operator.Value
	if b.Operator.Kind == token.Keyword {
		op = strings.ToUpper(op)
	}
	return "(" + b.Left.String() + " " + op + " " + b.Right.String() + ")"
}

func (s *Select) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(joinExpressions(s.Columns))
	if s.Table != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(s.Table.Value)
	}
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	return sb.String()
}

func (s *Insert) String() string {
	return "INSERT INTO " + s.Table.Value + " VALUES (" + joinExpressions(s.Values) + ")"
}

func (s *Create) String() string {
	columns := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = c.String()
	}
	return "CREATE TABLE " + s.Name.Value + " (" + strings.Join(columns, ", ") + ")"
}

func (c ColumnDefinition) String() string {
	return c.Name.Value + " " + strings.ToUpper(c.Datatype.Value)
}

// Format renders statements as a semicolon terminated script, one per line
func Format(statements []Statement) string {
	var sb strings.Builder
	for _, s := range statements {
		sb.WriteString(s.String())
		sb.WriteString(";\n")
	}
	return sb.String()
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
