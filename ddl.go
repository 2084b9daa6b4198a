package main

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

var castSuffixRe = regexp.MustCompile(`::[A-Za-z0-9_ ]+$`)

// normalizeDefault rewrites a PostgreSQL default expression for MySQL:
// strips one enclosing parenthesis pair and a trailing ::type cast,
// canonicalizes boolean literals to 0/1 and now()-style calls to
// CURRENT_TIMESTAMP. Everything else passes through stripped but with
// its original case.
func normalizeDefault(baseType, columnDefault string) string {
	if columnDefault == "" {
		return ""
	}

	expr := strings.TrimSpace(columnDefault)
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	expr = strings.TrimSpace(castSuffixRe.ReplaceAllString(expr, ""))

	normalized := strings.ToLower(expr)

	if baseType == "boolean" {
		switch normalized {
		case "true", "t", "1":
			return "1"
		case "false", "f", "0":
			return "0"
		}
	}

	switch normalized {
	case "now()", "current_timestamp", "current_timestamp()", "transaction_timestamp()":
		return "CURRENT_TIMESTAMP"
	}

	return expr
}

// isSerialColumn reports whether a column is server-generated
// auto-incrementing: a serial-family declared type or a sequence call
// in the default expression.
func isSerialColumn(col Column) bool {
	switch normalizePGType(col.DataType) {
	case "smallserial", "serial", "bigserial":
		return true
	}
	if col.Default != nil && strings.Contains(strings.ToLower(*col.Default), "nextval(") {
		return true
	}
	return false
}

// generateCreateTable produces a MySQL CREATE TABLE statement for a
// PostgreSQL table, dropping columns matched by the ignore rules. The
// second return value lists the dropped column names in declaration
// order. Malformed input degrades (dropped constraint, omitted clause,
// empty statement when no column survives) rather than erroring.
func generateCreateTable(t *Table, ignoreRules []string, tm TypeMapping) (string, []string) {
	var kept []Column
	var ignored []string
	for _, col := range t.Columns {
		if shouldIgnoreColumn(col, ignoreRules) {
			ignored = append(ignored, col.Name)
			log.Printf("  WARN: ignoring column %s.%s (type %s)", t.Name, col.Name, col.DataType)
		} else {
			kept = append(kept, col)
		}
	}

	if len(kept) == 0 {
		log.Printf("  WARN: table %s has no columns left after ignore rules, skipping", t.Name)
		return "", ignored
	}

	var defs []string
	for _, col := range kept {
		var b strings.Builder
		b.WriteString(myIdent(col.Name))
		b.WriteByte(' ')
		b.WriteString(tm.MapColumnType(col))

		if !col.Nullable {
			b.WriteString(" NOT NULL")
		}

		// Serial columns suppress the DEFAULT clause entirely; the
		// AUTO_INCREMENT modifier only satisfies a strict target engine
		// when the column is also in the primary key, which is on the
		// caller to guarantee.
		if isSerialColumn(col) {
			b.WriteString(" AUTO_INCREMENT")
		} else if col.Default != nil {
			if dflt := normalizeDefault(normalizePGType(col.DataType), *col.Default); dflt != "" {
				b.WriteString(" DEFAULT ")
				b.WriteString(dflt)
			}
		}

		defs = append(defs, "  "+b.String())
	}

	skip := make(map[string]bool, len(ignored))
	for _, name := range ignored {
		skip[name] = true
	}
	colNames := make(map[string]bool, len(kept))
	for _, col := range kept {
		colNames[col.Name] = true
	}
	var pkCols []string
	for _, pk := range t.PrimaryKeys {
		if skip[pk] {
			continue
		}
		if !colNames[pk] {
			log.Printf("  WARN: primary key column %s.%s not found, dropping from constraint", t.Name, pk)
			continue
		}
		pkCols = append(pkCols, pk)
	}
	if len(pkCols) > 0 {
		defs = append(defs, "  PRIMARY KEY ("+myIdentList(pkCols)+")")
	} else if len(t.PrimaryKeys) > 0 {
		log.Printf("  WARN: table %s loses its primary key, all PK columns ignored", t.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", myIdent(t.Name))
	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")
	return b.String(), ignored
}

// generateCreateIndex produces a CREATE INDEX statement. Callers must
// skip indexes that reference ignored columns; an index is emitted
// whole or not at all.
func generateCreateIndex(tableName, indexName string, columns []string, unique bool) string {
	uniqueKw := ""
	if unique {
		uniqueKw = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		uniqueKw, myIdent(indexName), myIdent(tableName), myIdentList(columns))
}

// indexReferencesIgnored reports whether an index touches any dropped column.
func indexReferencesIgnored(idx Index, ignoredColumns []string) bool {
	for _, col := range idx.Columns {
		for _, ignored := range ignoredColumns {
			if col == ignored {
				return true
			}
		}
	}
	return false
}
