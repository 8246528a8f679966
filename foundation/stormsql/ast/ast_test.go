// File: ast_test.go
// Title: SQL AST Tests
// Description: Tests for node rendering and traversal.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package ast

import (
	"reflect"
	"testing"

	"github.com/msto63/stormsql/foundation/stormsql/token"
)

func ident(name string) *Literal {
	return &Literal{Token: token.Token{Kind: token.Identifier, Value: name}}
}

func number(v string) *Literal {
	return &Literal{Token: token.Token{Kind: token.NumericLiteral, Value: v}}
}

func binary(left Expression, op token.Token, right Expression) *Binary {
	return &Binary{Left: left, Operator: op, Right: right}
}

func TestStatementString(t *testing.T) {
	table := token.Token{Kind: token.Identifier, Value: "users"}

	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{
			name: "Select with where",
			stmt: &Select{
				Columns: []Expression{ident("id"), ident("name")},
				Table:   &table,
				Where: binary(
					binary(ident("id"), token.NewSymbol("="), number("5")),
					token.NewKeyword(token.KeywordAnd),
					binary(ident("name"), token.NewSymbol("<>"), &Literal{Token: token.Token{Kind: token.StringLiteral, Value: "o'neil"}}),
				),
			},
			want: "SELECT id, name FROM users WHERE ((id = 5) AND (name <> 'o''neil'))",
		},
		{
			name: "Select constant",
			stmt: &Select{Columns: []Expression{binary(number("1"), token.NewSymbol("+"), number("1"))}},
			want: "SELECT (1 + 1)",
		},
		{
			name: "Insert",
			stmt: &Insert{Table: table, Values: []Expression{number("1"), number("-2.45")}},
			want: "INSERT INTO users VALUES (1, -2.45)",
		},
		{
			name: "Create",
			stmt: &Create{
				Name: table,
				Columns: []ColumnDefinition{
					{Name: token.Token{Kind: token.Identifier, Value: "id"}, Datatype: token.NewKeyword(token.KeywordInt)},
					{Name: token.Token{Kind: token.Identifier, Value: "ok"}, Datatype: token.NewKeyword(token.KeywordBoolean)},
				},
			},
			want: "CREATE TABLE users (id INT, ok BOOLEAN)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementKind(t *testing.T) {
	if (&Select{}).Kind() != SelectStatement || SelectStatement.String() != "select" {
		t.Error("select kind mismatch")
	}
	if (&Insert{}).Kind() != InsertStatement || InsertStatement.String() != "insert" {
		t.Error("insert kind mismatch")
	}
	if (&Create{}).Kind() != CreateStatement || CreateStatement.String() != "create" {
		t.Error("create kind mismatch")
	}
}

func TestFormat(t *testing.T) {
	stmts := []Statement{
		&Select{Columns: []Expression{number("1")}},
		&Select{Columns: []Expression{number("2")}},
	}
	if got := Format(stmts); got != "SELECT 1;\nSELECT 2;\n" {
		t.Errorf("Format() = %q", got)
	}
}

func TestInspect_Order(t *testing.T) {
	expr := binary(
		binary(number("2"), token.NewSymbol("*"), number("4")),
		token.NewSymbol("-"),
		ident("x"),
	)

	var visited []string
	Inspect(expr, func(n Node) bool {
		if n != nil {
			visited = append(visited, n.String())
		}
		return true
	})

	want := []string{"((2 * 4) - x)", "(2 * 4)", "2", "4", "x"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestInspect_Prune(t *testing.T) {
	expr := binary(binary(number("1"), token.NewSymbol("+"), number("2")), token.NewSymbol("*"), number("3"))

	count := 0
	Inspect(expr, func(n Node) bool {
		if n == nil {
			return false
		}
		count++
		_, isBinary := n.(*Binary)
		return n == Node(expr) || !isBinary
	})

	// root, pruned left binary, right literal
	if count != 3 {
		t.Errorf("visited %d nodes, want 3", count)
	}
}

func TestIdentifiers(t *testing.T) {
	table := token.Token{Kind: token.Identifier, Value: "t"}
	stmt := &Select{
		Columns: []Expression{ident("a"), ident("b"), number("1")},
		Table:   &table,
		Where:   binary(ident("a"), token.NewSymbol(">"), ident("c")),
	}

	got := Identifiers(stmt)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers() = %v, want %v", got, want)
	}
}

func TestPos(t *testing.T) {
	left := &Literal{Token: token.Token{Kind: token.Identifier, Value: "a", Location: token.Location{Line: 1, Column: 4}}}
	b := binary(left, token.NewSymbol("+"), number("1"))
	if b.Pos() != left.Token.Location {
		t.Errorf("Binary.Pos() = %v, want %v", b.Pos(), left.Token.Location)
	}
}
