// File: walk.go
// Title: SQL AST Traversal
// Description: Depth-first traversal of statements and expressions.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package ast

import (
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Literal:
		// leaf
	case *Binary:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Select:
		for _, c := range n.Columns {
			Walk(v, c)
		}
		if n.Where != nil {
			Walk(v, n.Where)
		}
	case *Insert:
		for _, e := range n.Values {
			Walk(v, e)
		}
	case *Create:
		// column definitions are not nodes
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order until f returns false.
// After the children of a node are visited f is called with nil.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Identifiers returns the distinct identifier names referenced by node in
// the order they first appear
func Identifiers(node Node) []string {
	var names []string
	seen := make(map[string]bool)

	Inspect(node, func(n Node) bool {
		if lit, ok := n.(*Literal); ok && lit.Token.Kind == token.Identifier && !seen[lit.Token.Value] {
			seen[lit.Token.Value] = true
			names = append(names, lit.Token.Value)
		}
		return true
	})
	return names
}
