// Package error provides the coded error type shared by the StormSQL packages.
//
// Package: error
// Title: StormSQL Error Handling
// Description: Structured errors with a stable code, a severity, free-form details and
//              an optional cause. Lexer and parser diagnostics are plain data; this
//              package is used when those diagnostics cross a boundary (CLI exit codes,
//              gRPC status mapping, history records).
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: SQL front-end codes, stack traces removed
//
// Usage:
//
//	err := mdwerror.New("unable to lex token 5abc").
//		WithCode(mdwerror.CodeSQLLex).
//		WithDetail("location", "1:1")
//
//	if mdwerror.HasCode(err, mdwerror.CodeSQLLex) {
//		// report as user input problem
//	}
package error
