// File: codes.go
// Title: Error Code Definitions
// Description: Stable error codes used to classify failures across the CLI,
//              the gRPC service and the history store.
// Author: StormSQL Authors
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Reduced to the codes used by the SQL front-end

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// SQL front-end
	CodeSQLLex       Code = "SQL_LEX"
	CodeSQLSyntax    Code = "SQL_SYNTAX"
	CodeSQLRoundTrip Code = "SQL_ROUNDTRIP"

	// Infrastructure
	CodeConfigError        Code = "CONFIG_ERROR"
	CodeStorageError       Code = "STORAGE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeVersionMismatch    Code = "VERSION_MISMATCH"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsUserError reports whether the code describes a problem with the caller's input
// rather than with the system itself.
func (c Code) IsUserError() bool {
	switch c {
	case CodeInvalidInput, CodeSQLLex, CodeSQLSyntax, CodeNotFound:
		return true
	default:
		return false
	}
}

// GetSeverityFromCode returns the default severity for a code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeSQLLex, CodeSQLSyntax, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeSQLRoundTrip, CodeConfigError, CodeVersionMismatch, CodeTimeout:
		return SeverityMedium
	case CodeStorageError, CodeServiceUnavailable:
		return SeverityHigh
	case CodeInternal:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
