// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides small Unicode-safe string helpers
//              shared by the StormSQL front-end and its tools.
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-19 v0.2.0: Reduced to the helpers used by StormSQL

// Package stringx provides extended string operations.
//
// All functions work on runes rather than bytes, so SQL text with
// multi-byte characters is never cut in the middle of a character:
//
//	stringx.Truncate("SELECT 'größe' FROM t;", 12, "...") // "SELECT 'g..."
//	stringx.IsBlank(" \t\n")                              // true
//	stringx.FirstNonBlank("", "  ", "json")               // "json"
package stringx
