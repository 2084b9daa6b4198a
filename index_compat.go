package main

import (
	"fmt"
	"strings"
)

// collectSkippedIndexWarnings lists indexes that will not be emitted
// because a key column is dropped by the ignore rules. Index emission
// is all-or-nothing per index.
func collectSkippedIndexWarnings(tableName string, indexes []Index, ignoredColumns []string) []string {
	var warnings []string
	for _, idx := range indexes {
		if indexReferencesIgnored(idx, ignoredColumns) {
			warnings = append(warnings, fmt.Sprintf(
				"%s.%s references ignored column(s), skipping index (%s)",
				tableName, idx.Name, strings.Join(idx.Columns, ", "),
			))
		}
	}
	return warnings
}
