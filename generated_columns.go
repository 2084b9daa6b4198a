package main

import "fmt"

func collectGeneratedColumnWarnings(tables []*Table) []string {
	var warnings []string
	for _, t := range tables {
		for _, col := range t.Columns {
			if !col.IsGenerated {
				continue
			}
			warnings = append(warnings, fmt.Sprintf(
				"generated column %s.%s will be materialized as plain data; generation expression is not recreated",
				t.Name, col.Name,
			))
		}
	}
	return warnings
}
