// File: doc.go
// Title: StormSQL Front-End Package Documentation
// Description: Entry point combining lexer, parser and reconstructor.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial front-end engine

// Package stormsql runs SQL source through the whole front-end:
//
//	text -> lexer -> tokens -> comment filter -> parser -> statements
//	                       \-> reconstructor -> canonical text
//
// The sub-packages can be used on their own; Engine wires them together,
// applies input limits and converts diagnostics into coded errors.
//
// Example:
//
//	engine := stormsql.New(stormsql.Options{IncludeComments: true})
//	analysis, err := engine.Analyze("SELECT id FROM users WHERE id = 5;")
//	if err != nil {
//		return err // input rejected before lexing
//	}
//	if err := analysis.Err(); err != nil {
//		fmt.Println(err) // lex or syntax error with location
//	}
package stormsql
