package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// loadAndExecSQLFiles reads each SQL file and executes every statement
// against the target, used for the before_data/after_data hooks.
func loadAndExecSQLFiles(ctx context.Context, dst *mysqlTarget, cfg *MigrationConfig, files []string, phase string) error {
	if len(files) == 0 {
		return nil
	}
	log.Printf("  running %s hooks (%d files)...", phase, len(files))

	for _, f := range files {
		path := cfg.resolvePath(f)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("hook %s: read %s: %w", phase, f, err)
		}

		stmts := splitStatements(string(data))
		log.Printf("    %s: %d statements", f, len(stmts))
		for i, stmt := range stmts {
			if err := dst.Execute(ctx, stmt); err != nil {
				return fmt.Errorf("hook %s: %s: statement %d: %w", phase, f, i+1, err)
			}
		}
	}
	return nil
}

// splitStatements splits SQL text on semicolons, ignoring empty
// entries and semicolons inside single-quoted strings or backtick
// identifiers.
func splitStatements(sql string) []string {
	var stmts []string
	var current strings.Builder
	inQuote := false
	inBacktick := false

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '`' && !inQuote:
			inBacktick = !inBacktick
			current.WriteByte(c)
		case c == '\'' && !inBacktick && !inQuote:
			inQuote = true
			current.WriteByte(c)
		case c == '\'' && inQuote:
			// Handle escaped quotes ('')
			if i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte(c)
				current.WriteByte(c)
				i++
			} else {
				inQuote = false
				current.WriteByte(c)
			}
		case c == ';' && !inQuote && !inBacktick:
			s := strings.TrimSpace(current.String())
			if s != "" {
				stmts = append(stmts, s)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	// Trailing statement without semicolon
	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}

	return stmts
}
