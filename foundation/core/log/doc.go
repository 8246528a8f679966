// Package log provides structured logging for StormSQL.
//
// Package: log
// Title: Structured Logging
// Description: A small structured logger with immutable With* derivation,
//              JSON and text formatters, severity aware reporting of coded
//              errors and an operation timer.
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Removed async buffering, added NewNop
//
// Usage:
//
//	logger := log.New().WithField("component", "parser")
//	logger.Debug("statement parsed", log.Fields{"kind": "select"})
//
//	timer := logger.StartTimer("parse")
//	defer timer.Stop()
package log
