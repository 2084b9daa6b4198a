package main

import (
	"reflect"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "two statements",
			sql:  "SET FOREIGN_KEY_CHECKS = 0;\nTRUNCATE TABLE audit_log;",
			want: []string{"SET FOREIGN_KEY_CHECKS = 0", "TRUNCATE TABLE audit_log"},
		},
		{
			name: "trailing statement without semicolon",
			sql:  "SELECT 1; SELECT 2",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "semicolon inside string literal",
			sql:  "INSERT INTO notes (body) VALUES ('a; b');",
			want: []string{"INSERT INTO notes (body) VALUES ('a; b')"},
		},
		{
			name: "escaped quote inside string",
			sql:  "INSERT INTO notes (body) VALUES ('it''s; fine'); SELECT 1;",
			want: []string{"INSERT INTO notes (body) VALUES ('it''s; fine')", "SELECT 1"},
		},
		{
			name: "semicolon inside backtick identifier",
			sql:  "CREATE TABLE `odd;name` (id INT);",
			want: []string{"CREATE TABLE `odd;name` (id INT)"},
		},
		{
			name: "empty and whitespace statements dropped",
			sql:  " ; ;\n\nSELECT 1;;",
			want: []string{"SELECT 1"},
		},
		{
			name: "empty input",
			sql:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitStatements(tt.sql)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitStatements(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}
