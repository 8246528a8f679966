// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     logging
// Description: Key-value helpers on top of Foundation fields
// Author:      StormSQL Authors
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
)

// KV converts alternating key-value pairs to mdwlog.Fields. Non-string keys
// and a trailing key without value are skipped.
func KV(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
