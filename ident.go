package main

import "strings"

// myIdent backtick-quotes a MySQL identifier, doubling embedded backticks.
func myIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// pgIdent double-quotes a PostgreSQL identifier for source-side queries.
// Quoting unconditionally preserves case and sidesteps reserved words.
func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// myIdentList joins MySQL-quoted identifiers with commas.
func myIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = myIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// pgIdentList joins PostgreSQL-quoted identifiers with commas.
func pgIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pgIdent(n)
	}
	return strings.Join(quoted, ", ")
}
