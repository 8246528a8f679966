// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management and client compatibility checks
// Author:      StormSQL Authors
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version constants for the StormSQL binaries
const (
	// Toolkit version, shared by the CLI and the daemon
	Toolkit = "0.3.0"

	// Protocol is the version of the gRPC front-end service contract
	Protocol = "1.1.0"

	// ProtocolConstraint lists the client protocol versions the server accepts
	ProtocolConstraint = "^1.0.0"
)

// Build information, set via -ldflags at release time
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given binary name
func ServiceVersion(name string) string {
	switch name {
	case "protocol":
		return Protocol
	default:
		return Toolkit
	}
}

// String returns a human readable version line
func String(name string) string {
	return fmt.Sprintf("%s %s (protocol %s, commit %s, built %s)",
		name, ServiceVersion(name), Protocol, Commit, BuildDate)
}

// Compatible reports whether a client protocol version satisfies the
// constraint. An empty client version is accepted for older clients that do
// not send one.
func Compatible(clientVersion, constraint string) (bool, error) {
	if clientVersion == "" {
		return true, nil
	}

	v, err := semver.NewVersion(clientVersion)
	if err != nil {
		return false, fmt.Errorf("invalid client version %q: %w", clientVersion, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

// Newer reports whether candidate is a higher version than current
func Newer(current, candidate string) (bool, error) {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, err
	}
	cand, err := semver.NewVersion(candidate)
	if err != nil {
		return false, err
	}
	return cand.GreaterThan(cur), nil
}
