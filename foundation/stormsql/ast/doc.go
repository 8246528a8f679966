// File: doc.go
// Title: SQL Abstract Syntax Tree Package Documentation
// Description: Statement and expression nodes produced by the parser, with
//              canonical string rendering and tree traversal.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST implementation

// Package ast defines the syntax tree for the supported SQL subset.
//
// Expressions are either a *Literal wrapping one token or a *Binary node
// that owns its two operands. A nil Expression stands for an absent
// expression, e.g. a SELECT without WHERE. Trees are never shared between
// parents, so a node can be modified without affecting another statement.
//
// Example:
//
//	ast.Inspect(stmt, func(n ast.Node) bool {
//		if lit, ok := n.(*ast.Literal); ok && lit.Token.Kind == token.Identifier {
//			columns = append(columns, lit.Token.Value)
//		}
//		return true
//	})
package ast
