// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick a log level when an error is reported.
// Author: StormSQL Authors
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-01-24

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad user input, e.g. a SQL syntax error
	SeverityLow Severity = iota

	// SeverityMedium indicates a recoverable problem such as a bad config value
	SeverityMedium

	// SeverityHigh indicates a failing dependency (storage, network)
	SeverityHigh

	// SeverityCritical indicates a broken internal invariant
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
