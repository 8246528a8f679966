// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     explorer
// Description: Message types for async operations in the SQL explorer
// Author:      StormSQL Authors
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package explorer

import (
	"github.com/msto63/stormsql/foundation/stormsql"
)

// Message types for tea.Cmd async operations

// analyzedMsg is sent when a submitted source has been analyzed
type analyzedMsg struct {
	source   string
	analysis *stormsql.Analysis
	err      error
}
